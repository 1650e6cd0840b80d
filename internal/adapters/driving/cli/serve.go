package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/civika-labs/faqd/internal/adapters/driven/watch"
	"github.com/civika-labs/faqd/internal/adapters/driving/httpapi"
	"github.com/civika-labs/faqd/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chat server",
	Long: `Start the HTTP chat server.

On startup the knowledge document is ingested into the chunk cache unless
the cache already holds chunks, both AI backends are validated, and the
session sweeper and document watcher are started. The server then answers
POST /v1/chat requests until interrupted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	stopSweeper := startSweeper(ctx, a.sessions)
	defer stopSweeper()

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	if w, err := watch.New(a.cfg.Document.Path); err != nil {
		// The watcher only warns about stale caches; serving without it
		// is degraded, not broken.
		logger.Warn("document watcher disabled: %v", err)
	} else {
		go w.Run(watchCtx)
		defer w.Close()
	}

	srv := httpapi.NewServer(a.chat, a.cfg.Server)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
