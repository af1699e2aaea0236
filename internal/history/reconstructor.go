// Package history reconstruye la serie de PnL acumulado de un trader por timeframe.
//
// Orden de preferencia:
//  1. scrape de la página de perfil (datos reales, cacheados 60s por wallet)
//  2. timeline sintético anclado a los deltas por periodo del leaderboard
//  3. historia vacía: el consumidor pinta una línea mínima de dos puntos
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/alejandrodnm/polywatch/internal/domain"
	"github.com/alejandrodnm/polywatch/internal/ports"
	"github.com/alejandrodnm/polywatch/internal/ttlcache"
)

const (
	defaultCacheTTL = 60 * time.Second
	// maxFallbackTrades es el número de trades recientes que anclan el timeline sintético.
	maxFallbackTrades = 200
)

// Reconstructor implementa ports.HistoryProvider.
type Reconstructor struct {
	scraper ports.ProfileScraper
	stats   ports.StatsProvider
	trades  ports.TradeProvider

	cache *ttlcache.Cache[string, domain.History]
	now   func() time.Time
	ttl   time.Duration
}

// Option configura el Reconstructor.
type Option func(*Reconstructor)

// WithClock sustituye time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(r *Reconstructor) { r.now = now }
}

// WithCacheTTL cambia el TTL de la caché de historias scrapeadas.
func WithCacheTTL(ttl time.Duration) Option {
	return func(r *Reconstructor) { r.ttl = ttl }
}

// New crea un Reconstructor con sus tres fuentes.
func New(scraper ports.ProfileScraper, stats ports.StatsProvider, trades ports.TradeProvider, opts ...Option) *Reconstructor {
	r := &Reconstructor{
		scraper: scraper,
		stats:   stats,
		trades:  trades,
		now:     time.Now,
		ttl:     defaultCacheTTL,
	}
	for _, o := range opts {
		o(r)
	}
	r.cache = ttlcache.New[string, domain.History](r.ttl, ttlcache.WithClock[string, domain.History](r.now))
	return r
}

// Reconstruct devuelve las cuatro series del wallet. Nunca falla.
func (r *Reconstructor) Reconstruct(ctx context.Context, wallet string) domain.History {
	key := domain.NormalizeWallet(wallet)
	if h, ok := r.cache.Get(key); ok {
		return h.Clone()
	}

	h, err := r.scrape(ctx, key)
	if err == nil {
		r.cache.Set(key, h)
		return h.Clone()
	}

	level := slog.LevelWarn
	if errors.Is(err, domain.ErrDegenerate) {
		level = slog.LevelDebug
	}
	slog.Log(ctx, level, "profile scrape unusable, using synthetic history", "wallet", key, "err", err)

	return r.synthesize(ctx, key)
}

// ClearCache olvida todas las historias scrapeadas.
func (r *Reconstructor) ClearCache() {
	r.cache.Clear()
}

// scrape devuelve la historia real o un error de la taxonomía.
func (r *Reconstructor) scrape(ctx context.Context, wallet string) (domain.History, error) {
	h, err := r.scraper.ProfilePnL(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("history.scrape: %w", err)
	}
	if !h.HasVariation() {
		return nil, fmt.Errorf("history.scrape: %w", domain.ErrDegenerate)
	}
	for _, tf := range domain.Timeframes() {
		if h[tf] == nil {
			h[tf] = domain.Series{}
		}
	}
	return h, nil
}

// synthesize arma el timeline sintético. Si no se pudo obtener ningún delta
// devuelve la historia vacía y deja el último recurso al consumidor.
func (r *Reconstructor) synthesize(ctx context.Context, wallet string) domain.History {
	var (
		mu     sync.Mutex
		deltas = make(map[domain.Period]float64, 4)
		errs   error
		trades []domain.Trade
	)

	// Un panic en un input cuenta como ese input fallido.
	collect := func(fn func() error) func() error {
		return func() error {
			defer func() {
				if rec := recover(); rec != nil {
					mu.Lock()
					errs = multierr.Append(errs, fmt.Errorf("panic: %v", rec))
					mu.Unlock()
				}
			}()
			return fn()
		}
	}

	var g errgroup.Group
	for _, p := range domain.Periods() {
		g.Go(collect(func() error {
			pp, err := r.stats.PeriodPnL(ctx, wallet, p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierr.Append(errs, err)
				return nil
			}
			deltas[p] = pp.PnL
			return nil
		}))
	}
	g.Go(collect(func() error {
		ts, err := r.trades.RecentTrades(ctx, wallet, maxFallbackTrades)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = multierr.Append(errs, err)
			return nil
		}
		trades = ts
		return nil
	}))
	_ = g.Wait()

	if errs != nil {
		slog.Debug("synthetic history inputs degraded", "wallet", wallet, "errors", len(multierr.Errors(errs)), "err", errs)
	}
	if len(deltas) == 0 {
		return domain.EmptyHistory()
	}

	return domain.SyntheticHistory(r.now(), deltas, trades, func(tf domain.Timeframe) *rand.Rand {
		return domain.NewJitterSource(wallet, tf)
	})
}
