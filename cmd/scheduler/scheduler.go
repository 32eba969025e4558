// Package scheduler implements the recurring crawl command.
package scheduler

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/medium-crawler/cmd/common"
)

// errNoScheduleTags is returned when no tags are configured to re-crawl.
var errNoScheduleTags = errors.New("no schedule tags configured (crawler.schedule_tags)")

// Command returns the scheduler command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Re-crawl configured tags on a cron schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
}

// run starts the cron schedule and blocks until interrupted. Each tick
// crawls the configured tags sequentially; one tag's failure is recorded
// on its own CrawlRun and does not stop the remaining tags.
func run(ctx context.Context) error {
	deps, err := common.New(ctx)
	if err != nil {
		return err
	}
	defer deps.Close() //nolint:errcheck

	tags := deps.Config.Crawler.ScheduleTags
	if len(tags) == 0 {
		return errNoScheduleTags
	}

	log := deps.Logger.WithComponent("scheduler")

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	schedule := cron.New()
	_, err = schedule.AddFunc(deps.Config.Crawler.ScheduleSpec, func() {
		for _, tag := range tags {
			if signalCtx.Err() != nil {
				return
			}
			if _, crawlErr := deps.Orchestrator.CrawlTag(signalCtx, tag, nil); crawlErr != nil {
				log.Error("scheduled crawl failed", "tag", tag, "error", crawlErr)
			}
		}
	})
	if err != nil {
		return err
	}

	log.Info("scheduler started",
		"spec", deps.Config.Crawler.ScheduleSpec,
		"tags", tags,
	)

	schedule.Start()
	<-signalCtx.Done()

	log.Info("scheduler stopping")
	<-schedule.Stop().Done()

	return nil
}
