// Package dashboard coordina el refresh de la watchlist: resumen por trader,
// reconstrucción de historia, clasificación y reporte de progreso.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/alejandrodnm/polywatch/internal/domain"
	"github.com/alejandrodnm/polywatch/internal/ports"
)

var (
	// ErrRefreshInProgress: ya hay un refresh corriendo; la llamada no hace nada.
	ErrRefreshInProgress = errors.New("dashboard: refresh already in progress")
	// ErrUpstreamUnavailable: fallaron todos los traders del ciclo.
	ErrUpstreamUnavailable = errors.New("dashboard: upstream unavailable")
)

const (
	quickPositionsLimit = 100
	activityLimit       = 100
)

// Providers agrupa los puertos que consume el orquestador.
type Providers struct {
	Positions   ports.PositionProvider
	Stats       ports.StatsProvider
	Activity    ports.ActivityProvider
	Trades      ports.TradeProvider
	History     ports.HistoryProvider
	Leaderboard ports.LeaderboardProvider
	// Profiles es opcional: amplía la búsqueda por nombre con la Gamma API.
	Profiles ports.ProfileSearcher
	// Caches se vacían al inicio de un refresh manual.
	Caches []ports.CacheClearer
	// Cycles y Notifier son opcionales: si están, cada refresh se persiste y se notifica.
	Cycles   ports.CycleStore
	Notifier ports.Notifier
}

// Config contiene la concurrencia por modo.
type Config struct {
	QuickConcurrency int
	FullConcurrency  int
}

// DefaultConfig: lotes de 10 en quick refresh y de 6 en refresh completo.
func DefaultConfig() Config {
	return Config{QuickConcurrency: 10, FullConcurrency: 6}
}

// Orchestrator es el fan-out/fan-in del dashboard. Es seguro para uso concurrente;
// Refresh se serializa con un flag de ocupado.
type Orchestrator struct {
	p    Providers
	cfg  Config
	busy atomic.Bool
	now  func() time.Time

	// last son los resultados del último ciclo, sea quien sea quien lo lanzó.
	lastMu sync.RWMutex
	last   []domain.TraderResult
}

// Option configura el Orchestrator.
type Option func(*Orchestrator)

// WithClock sustituye time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New crea un Orchestrator con todas las dependencias inyectadas.
func New(p Providers, cfg Config, opts ...Option) *Orchestrator {
	def := DefaultConfig()
	if cfg.QuickConcurrency <= 0 {
		cfg.QuickConcurrency = def.QuickConcurrency
	}
	if cfg.FullConcurrency <= 0 {
		cfg.FullConcurrency = def.FullConcurrency
	}
	o := &Orchestrator{p: p, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// TraderSummary obtiene el resumen de un wallet.
//
// quick: una página de posiciones + stats del leaderboard.
// completo: todas las posiciones, stats, PnL por periodo, actividad, fecha del
// primer trade e historia de PnL, en paralelo. Cada sub-fetch que falla se degrada
// por separado; solo se devuelve error si fallan a la vez posiciones y stats.
// Un panic en un sub-fetch se relanza en la goroutine que llama.
func (o *Orchestrator) TraderSummary(ctx context.Context, wallet string, quick bool) (domain.TraderSummary, error) {
	var (
		mu        sync.Mutex
		errs      error
		positions []domain.Position
		stats     domain.UserStats
		posErr    error
		statsErr  error
	)
	record := func(err error) {
		mu.Lock()
		errs = multierr.Append(errs, err)
		mu.Unlock()
	}

	var (
		g     errgroup.Group
		guard panicGuard
	)
	g.Go(guard.wrap(func() error {
		if quick {
			positions, posErr = o.p.Positions.Positions(ctx, wallet, domain.PositionQuery{Limit: quickPositionsLimit})
		} else {
			positions, posErr = o.p.Positions.AllPositions(ctx, wallet)
		}
		if posErr != nil {
			record(posErr)
		}
		return nil
	}))
	g.Go(guard.wrap(func() error {
		stats, statsErr = o.p.Stats.UserStats(ctx, wallet)
		if statsErr != nil {
			record(statsErr)
		}
		return nil
	}))

	var (
		periods    map[domain.Period]domain.PeriodPnL
		activity   []domain.Activity
		firstTrade *time.Time
		hist       domain.History
		value      float64
	)
	if !quick {
		g.Go(guard.wrap(func() error {
			var err error
			periods, err = o.periodPnLs(ctx, wallet)
			if err != nil {
				record(err)
			}
			return nil
		}))
		g.Go(guard.wrap(func() error {
			var err error
			activity, err = o.p.Activity.Activity(ctx, wallet, domain.ActivityQuery{Limit: activityLimit})
			if err != nil {
				record(err)
			}
			return nil
		}))
		g.Go(guard.wrap(func() error {
			var err error
			firstTrade, err = o.p.Trades.FirstTradeDate(ctx, wallet)
			if err != nil {
				record(err)
			}
			return nil
		}))
		g.Go(guard.wrap(func() error {
			hist = o.p.History.Reconstruct(ctx, wallet)
			return nil
		}))
		g.Go(guard.wrap(func() error {
			var err error
			value, err = o.p.Positions.PortfolioValue(ctx, wallet)
			if err != nil {
				record(err)
			}
			return nil
		}))
	}
	_ = g.Wait()
	guard.rethrow()

	if err := ctx.Err(); err != nil {
		return domain.TraderSummary{}, fmt.Errorf("dashboard.TraderSummary: %w", err)
	}
	if posErr != nil && statsErr != nil {
		return domain.TraderSummary{}, fmt.Errorf("dashboard.TraderSummary: %w", multierr.Combine(posErr, statsErr))
	}
	if errs != nil {
		slog.Debug("trader summary degraded",
			"wallet", wallet,
			"quick", quick,
			"failed_fetches", len(multierr.Errors(errs)),
			"err", errs,
		)
	}

	s := domain.NewTraderSummary(wallet, positions, stats)
	s.PeriodPnLs = periods
	s.FirstTradeDate = firstTrade
	s.PnLHistory = hist
	s.PortfolioValue = value
	if activity != nil {
		s.RecentActivity = activity
	}
	return s, nil
}

// periodPnLs pide los cuatro periodos en paralelo. Los que fallan se omiten.
func (o *Orchestrator) periodPnLs(ctx context.Context, wallet string) (map[domain.Period]domain.PeriodPnL, error) {
	var (
		mu   sync.Mutex
		errs error
		out  = make(map[domain.Period]domain.PeriodPnL, 4)
	)
	var (
		g     errgroup.Group
		guard panicGuard
	)
	for _, p := range domain.Periods() {
		g.Go(guard.wrap(func() error {
			pp, err := o.p.Stats.PeriodPnL(ctx, wallet, p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierr.Append(errs, err)
				return nil
			}
			out[p] = pp
			return nil
		}))
	}
	_ = g.Wait()
	guard.rethrow()

	if len(out) == 0 {
		return nil, errs
	}
	return out, errs
}

// Classify obtiene el resumen completo de un wallet y lo clasifica.
func (o *Orchestrator) Classify(ctx context.Context, entry domain.WatchlistEntry) (domain.TraderSummary, domain.Classification, error) {
	s, err := o.TraderSummary(ctx, entry.Wallet, false)
	if err != nil {
		return domain.TraderSummary{}, domain.Classification{}, err
	}
	s.Name = summaryName(entry, s)
	o.fillMinimalSeries(&s)
	return s, domain.Classify(s), nil
}

func summaryName(entry domain.WatchlistEntry, s domain.TraderSummary) string {
	if entry.Name != "" {
		return entry.Name
	}
	if s.UserName != "" {
		return s.UserName
	}
	return entry.Label()
}

// fillMinimalSeries garantiza una línea pintable en cada timeframe con menos
// de dos puntos: [(now-30d, total-delta), (now, total)].
func (o *Orchestrator) fillMinimalSeries(s *domain.TraderSummary) {
	if s.PnLHistory == nil {
		s.PnLHistory = domain.EmptyHistory()
	}
	total := s.TotalPnl
	if total == 0 {
		total = s.PeriodPnLs[domain.PeriodAll].PnL
	}
	now := o.now()
	for _, tf := range domain.Timeframes() {
		if len(s.PnLHistory[tf]) >= 2 {
			continue
		}
		s.PnLHistory[tf] = domain.MinimalSeries(now, total, s.PeriodDelta(tf))
	}
}
