package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

// RefreshOptions parametriza un ciclo de refresh.
type RefreshOptions struct {
	// Quick usa una página de posiciones + stats y conserva del resultado
	// anterior los campos que no se vuelven a pedir.
	Quick bool
	// Manual vacía las cachés de respuestas antes de empezar.
	Manual bool
	// Existing son los resultados del ciclo anterior (para Quick). Si es nil
	// se usan los del último ciclo del Orchestrator.
	Existing []domain.TraderResult
	// Progress recibe un evento por trader en orden de finalización.
	// Refresh cierra el canal al terminar; si rechaza la llamada con
	// ErrRefreshInProgress no lo toca.
	Progress chan<- domain.ProgressEvent
}

// Refresh procesa la watchlist en lotes de tamaño acotado. Los resultados se
// devuelven en el orden de entries. Un trader que falla produce un resultado
// degradado en vez de abortar el ciclo.
func (o *Orchestrator) Refresh(ctx context.Context, entries []domain.WatchlistEntry, opts RefreshOptions) ([]domain.TraderResult, error) {
	if !o.busy.CompareAndSwap(false, true) {
		return nil, ErrRefreshInProgress
	}
	defer o.busy.Store(false)
	if opts.Progress != nil {
		defer close(opts.Progress)
	}

	start := time.Now()
	if opts.Manual {
		for _, c := range o.p.Caches {
			c.ClearCache()
		}
	}

	batch := o.cfg.FullConcurrency
	if opts.Quick {
		batch = o.cfg.QuickConcurrency
	}
	if opts.Existing == nil {
		opts.Existing = o.Last()
	}
	existing := indexExisting(opts.Existing)

	var (
		results   = make([]domain.TraderResult, len(entries))
		mu        sync.Mutex
		completed int
	)
	for lo := 0; lo < len(entries); lo += batch {
		hi := min(lo+batch, len(entries))

		var wg sync.WaitGroup
		for i := lo; i < hi; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				entry := entries[i]
				prev := existing[domain.NormalizeWallet(entry.Wallet)]
				results[i] = o.processTrader(ctx, entry, prev, opts.Quick)

				mu.Lock()
				completed++
				ev := domain.ProgressEvent{
					Completed: completed,
					Total:     len(entries),
					Name:      results[i].Entry.Label(),
					Wallet:    entry.Wallet,
				}
				if opts.Progress != nil {
					select {
					case opts.Progress <- ev:
					case <-ctx.Done():
					}
				}
				mu.Unlock()
			}()
		}
		wg.Wait()
	}

	cycle := domain.SummarizeCycle(uuid.NewString(), start, time.Since(start), opts.Quick, results)
	o.afterCycle(ctx, cycle, results)
	o.storeLast(results)

	if len(entries) > 0 && cycle.Failed == len(entries) {
		return results, ErrUpstreamUnavailable
	}
	return results, nil
}

// Last devuelve una copia de los resultados del último ciclo terminado, o nil
// si aún no ha habido ninguno.
func (o *Orchestrator) Last() []domain.TraderResult {
	o.lastMu.RLock()
	defer o.lastMu.RUnlock()
	if o.last == nil {
		return nil
	}
	return append([]domain.TraderResult(nil), o.last...)
}

func (o *Orchestrator) storeLast(results []domain.TraderResult) {
	o.lastMu.Lock()
	o.last = append([]domain.TraderResult{}, results...)
	o.lastMu.Unlock()
}

// afterCycle notifica y persiste el ciclo. Los fallos solo se loguean.
func (o *Orchestrator) afterCycle(ctx context.Context, cycle domain.RefreshCycle, results []domain.TraderResult) {
	if o.p.Notifier != nil {
		if err := o.p.Notifier.Notify(ctx, results); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}
	if o.p.Cycles != nil {
		if err := o.p.Cycles.SaveCycle(ctx, cycle); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}

	slog.Info("refresh complete",
		"cycle_id", cycle.ID,
		"traders", cycle.Traders,
		"failed", cycle.Failed,
		"quick", cycle.Quick,
		"duration", cycle.Duration.Round(time.Millisecond),
	)
}

// processTrader nunca devuelve error: los fallos y los panics se convierten en un
// resultado degradado que conserva lo que se sabía del trader.
func (o *Orchestrator) processTrader(ctx context.Context, entry domain.WatchlistEntry, prev *domain.TraderSummary, quick bool) (res domain.TraderResult) {
	res = domain.TraderResult{Entry: entry, LastUpdated: o.now()}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("trader processing panicked", "wallet", entry.Wallet, "panic", r)
			res.Err = fmt.Sprintf("panic: %v", r)
			res.Summary = o.degraded(entry, prev)
			res.Strategy = nil
		}
	}()

	s, err := o.TraderSummary(ctx, entry.Wallet, quick)
	if err != nil {
		slog.Warn("trader refresh failed", "wallet", entry.Wallet, "err", err)
		res.Err = err.Error()
		res.Summary = o.degraded(entry, prev)
		return res
	}

	if quick && prev != nil {
		preserveSlowFields(&s, prev)
	}
	s.Name = summaryName(entry, s)
	o.fillMinimalSeries(&s)

	c := domain.Classify(s)
	res.Summary = s
	res.Strategy = &c
	return res
}

func (o *Orchestrator) degraded(entry domain.WatchlistEntry, prev *domain.TraderSummary) domain.TraderSummary {
	s := domain.DegradedSummary(entry.Wallet, prev)
	s.PnLHistory = s.PnLHistory.Clone()
	s.Name = summaryName(entry, s)
	o.fillMinimalSeries(&s)
	return s
}

// preserveSlowFields copia del ciclo anterior los campos que el quick refresh no pide.
func preserveSlowFields(s *domain.TraderSummary, prev *domain.TraderSummary) {
	if s.PeriodPnLs == nil {
		s.PeriodPnLs = prev.PeriodPnLs
	}
	if s.FirstTradeDate == nil {
		s.FirstTradeDate = prev.FirstTradeDate
	}
	if s.PnLHistory == nil {
		s.PnLHistory = prev.PnLHistory.Clone()
	}
	if len(s.RecentActivity) == 0 {
		s.RecentActivity = prev.RecentActivity
	}
	if s.PortfolioValue == 0 {
		s.PortfolioValue = prev.PortfolioValue
	}
}

func indexExisting(results []domain.TraderResult) map[string]*domain.TraderSummary {
	out := make(map[string]*domain.TraderSummary, len(results))
	for i := range results {
		key := results[i].Entry.WalletKey()
		if key == "" {
			key = domain.NormalizeWallet(results[i].Summary.Wallet)
		}
		out[key] = &results[i].Summary
	}
	return out
}
