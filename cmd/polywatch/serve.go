package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alejandrodnm/polywatch/internal/adapters/httpapi"
	"github.com/alejandrodnm/polywatch/internal/dashboard"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Arranca el backend HTTP del dashboard",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if serveListen != "" {
			cfg.Server.Listen = serveListen
		}
		if cfg.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		a, err := newApp(ctx, cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		srv := httpapi.New(cfg.Server.Listen, httpapi.Deps{
			Proxy:     a.client,
			History:   a.history,
			Dashboard: a.dashboard,
			Watchlist: a.watchlist,
		})

		slog.Info("polywatch serving",
			"listen", cfg.Server.Listen,
			"watchlist", len(a.watchlist.List()),
			"refresh_interval", cfg.RefreshInterval(),
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.Run(gctx) })
		if interval := cfg.RefreshInterval(); interval > 0 {
			g.Go(func() error {
				runRefreshLoop(gctx, a, interval)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		slog.Info("polywatch stopped cleanly")
		return nil
	},
}

// runRefreshLoop refresca la watchlist cada interval hasta que se cancela ctx.
// El primer ciclo es completo; los siguientes son quick sobre los resultados
// que guarda el Orchestrator, que también sirve /api/traders.
func runRefreshLoop(ctx context.Context, a *app, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("background refresh stopped")
			return
		case <-ticker.C:
			_, err := a.dashboard.Refresh(ctx, a.watchlist.List(), dashboard.RefreshOptions{
				Quick: a.dashboard.Last() != nil,
			})
			switch {
			case errors.Is(err, dashboard.ErrRefreshInProgress):
				slog.Debug("background refresh skipped: refresh in progress")
			case err != nil:
				slog.Warn("background refresh failed", "err", err)
			}
		}
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
