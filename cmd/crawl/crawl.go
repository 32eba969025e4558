// Package crawl implements the one-shot crawl command.
package crawl

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/medium-crawler/cmd/common"
)

// Command returns the crawl command.
func Command() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "crawl [tag]",
		Short: "Crawl articles for a tag and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum candidates to process (0 = configured default)")

	return cmd
}

func run(cmd *cobra.Command, tag string, limit int) error {
	ctx := cmd.Context()

	// Flag overrides must land before the dependency graph is built.
	if limit > 0 {
		viper.Set("crawler.limit", limit)
	}

	deps, err := common.New(ctx)
	if err != nil {
		return err
	}
	defer deps.Close() //nolint:errcheck

	log := deps.Logger.WithComponent("crawl")

	progress := func(index, total int, title string) {
		log.Info("crawling article", "index", index, "total", total, "title", title)
	}

	articles, err := deps.Orchestrator.CrawlTag(ctx, tag, progress)
	if err != nil {
		// The run is already finalized as failed; the CLI surfaces the error.
		return err
	}

	fmt.Printf("Crawled %d new article(s) for tag %q\n", len(articles), tag)
	for _, article := range articles {
		fmt.Printf("  - %s (%s)\n", article.Title, article.MediumURL)
	}

	return nil
}
