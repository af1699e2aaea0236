package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alejandrodnm/polywatch/config"
	"github.com/alejandrodnm/polywatch/internal/adapters/notify"
	"github.com/alejandrodnm/polywatch/internal/adapters/polymarket"
	"github.com/alejandrodnm/polywatch/internal/adapters/storage"
	"github.com/alejandrodnm/polywatch/internal/dashboard"
	"github.com/alejandrodnm/polywatch/internal/history"
	"github.com/alejandrodnm/polywatch/internal/ports"
	"github.com/alejandrodnm/polywatch/internal/watchlist"
)

// app es el grafo de dependencias de un comando.
type app struct {
	cfg       *config.Config
	client    *polymarket.Client
	store     *storage.SQLiteStorage
	history   *history.Reconstructor
	dashboard *dashboard.Orchestrator
	watchlist *watchlist.Service
	console   *notify.Console
}

// appOptions ajusta el cableado según el comando.
type appOptions struct {
	table bool
	// notify: el orquestador imprime cada ciclo por consola.
	notify bool
}

func newApp(ctx context.Context, cfg *config.Config, opts appOptions) (*app, error) {
	client := polymarket.NewClient(cfg.API.DataBase, cfg.API.GammaBase, cfg.API.SiteBase,
		polymarket.WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}),
		polymarket.WithCacheTTL(cfg.CacheTTL()),
		polymarket.WithRetries(cfg.API.Retries, polymarket.DefaultRetryWait),
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("open storage %q: %w", cfg.Storage.DSN, err)
	}

	wl := watchlist.New(store)
	if err := wl.Load(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	reconstructor := history.New(client, client, client, history.WithCacheTTL(cfg.HistoryCacheTTL()))
	console := notify.NewConsole(opts.table)

	providers := dashboard.Providers{
		Positions:   client,
		Stats:       client,
		Activity:    client,
		Trades:      client,
		History:     reconstructor,
		Leaderboard: client,
		Profiles:    client,
		Caches:      []ports.CacheClearer{client, reconstructor},
		Cycles:      store,
	}
	if opts.notify {
		providers.Notifier = console
	}
	orch := dashboard.New(providers, dashboard.Config{
		QuickConcurrency: cfg.Dashboard.QuickConcurrency,
		FullConcurrency:  cfg.Dashboard.FullConcurrency,
	})

	return &app{
		cfg:       cfg,
		client:    client,
		store:     store,
		history:   reconstructor,
		dashboard: orch,
		watchlist: wl,
		console:   console,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
