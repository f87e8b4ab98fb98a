package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/pokemon-catcher/internal/api"
	"github.com/ramonehamilton/pokemon-catcher/internal/config"
	"github.com/ramonehamilton/pokemon-catcher/internal/storage"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		port        int
		openBrowser bool
		frontendURL string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API and WebSocket event feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withCatalogApp(ctx, opts, func(a *app) error {
				if port == 0 {
					port = a.cfg.Server.Port
				}
				server := api.NewServer(&api.Config{
					Port:        port,
					OpenBrowser: openBrowser,
					FrontendURL: frontendURL,
				}, a.game, a.logger)
				a.dispatcher.Register(server.NewWebSocketObserver())

				if err := server.Start(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "API server running at http://localhost:%d\n", port)

				go a.watchConfig(ctx, opts.configPath)
				if err := a.startBackups(ctx); err != nil {
					return err
				}

				<-ctx.Done()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default: server.port)")
	cmd.Flags().BoolVar(&openBrowser, "open", false, "Open the frontend in a browser")
	cmd.Flags().StringVar(&frontendURL, "frontend-url", "", "Frontend URL to open")
	return cmd
}

// watchConfig applies live-reloadable settings until ctx is done.
func (a *app) watchConfig(ctx context.Context, path string) {
	err := config.Watch(ctx, path, a.logger, func(cfg *config.Config) {
		delay, err := cfg.GetCatchDelay()
		if err != nil {
			return
		}
		a.attempter.SetDelay(delay)
		a.logger.Info("catch delay updated", zap.Duration("delay", delay))
	})
	if err != nil {
		a.logger.Warn("config watcher stopped", zap.Error(err))
	}
}

// startBackups runs the backup scheduler when an interval is configured.
func (a *app) startBackups(ctx context.Context) error {
	interval, err := a.cfg.GetBackupInterval()
	if err != nil {
		return fmt.Errorf("invalid backup interval: %w", err)
	}
	if interval == 0 {
		return nil
	}

	manager := storage.NewBackupManager(a.db, a.cfg.Storage.BackupDir)
	scheduler := storage.NewBackupScheduler(manager, interval, a.cfg.Storage.BackupKeep, a.logger)
	go func() {
		if err := scheduler.Run(ctx); err != nil {
			a.logger.Warn("backup scheduler stopped", zap.Error(err))
		}
	}()
	return nil
}
