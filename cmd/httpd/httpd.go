// Package httpd implements the HTTP server command for the crawler.
package httpd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/medium-crawler/cmd/common"
	"github.com/jonesrussell/medium-crawler/internal/api"
)

// defaultShutdownTimeout bounds graceful shutdown.
const defaultShutdownTimeout = 30 * time.Second

// Command returns the httpd command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Run the crawler HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return start(cmd.Context())
		},
	}
}

// start runs the HTTP server until interrupted, then shuts down
// gracefully.
func start(ctx context.Context) error {
	deps, err := common.New(ctx)
	if err != nil {
		return err
	}
	defer deps.Close() //nolint:errcheck

	log := deps.Logger.WithComponent("httpd")

	progress := func(index, total int, title string) {
		log.Info("crawling article", "index", index, "total", total, "title", title)
	}

	router := api.SetupRouter(
		deps.Logger,
		api.NewCrawlHandler(deps.Orchestrator, deps.Runs, deps.Articles, progress),
		api.NewTagsHandler(deps.Suggester),
		api.NewArticlesHandler(deps.Articles),
		api.NewHistoryHandler(deps.History),
	)

	srv := api.NewHTTPServer(deps.Config.Server, router)

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "address", srv.Addr)
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	select {
	case serveErr := <-errCh:
		return fmt.Errorf("http server: %w", serveErr)
	case <-signalCtx.Done():
	}

	log.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if shutdownErr := api.Shutdown(shutdownCtx, srv); shutdownErr != nil {
		return fmt.Errorf("http server shutdown: %w", shutdownErr)
	}

	return nil
}
