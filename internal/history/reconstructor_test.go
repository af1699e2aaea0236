package history_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/polywatch/internal/domain"
	"github.com/alejandrodnm/polywatch/internal/history"
)

// --- mocks ---

type mockScraper struct {
	mu    sync.Mutex
	h     domain.History
	err   error
	calls int
}

func (m *mockScraper) ProfilePnL(_ context.Context, _ string) (domain.History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.h.Clone(), m.err
}

type mockStats struct {
	deltas map[domain.Period]float64
	failed map[domain.Period]bool
}

func (m *mockStats) UserStats(_ context.Context, _ string) (domain.UserStats, error) {
	return domain.UserStats{TotalPnl: m.deltas[domain.PeriodAll]}, nil
}

func (m *mockStats) PeriodPnL(_ context.Context, _ string, p domain.Period) (domain.PeriodPnL, error) {
	if m.failed[p] {
		return domain.PeriodPnL{}, fmt.Errorf("leaderboard %s: %w", p, domain.ErrTransport)
	}
	return domain.PeriodPnL{PnL: m.deltas[p]}, nil
}

type mockTrades struct {
	trades []domain.Trade
	err    error
	panics bool
}

func (m *mockTrades) Trades(_ context.Context, _ string, _ domain.TradeQuery) ([]domain.Trade, error) {
	return m.trades, m.err
}

func (m *mockTrades) RecentTrades(_ context.Context, _ string, max int) ([]domain.Trade, error) {
	if m.panics {
		panic("trades decoder blew up")
	}
	if len(m.trades) > max {
		return m.trades[:max], m.err
	}
	return m.trades, m.err
}

func (m *mockTrades) FirstTradeDate(_ context.Context, _ string) (*time.Time, error) {
	return nil, nil
}

// --- helpers ---

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func flatHistory(p float64) domain.History {
	h := domain.History{}
	for _, tf := range domain.Timeframes() {
		h[tf] = domain.Series{{Timestamp: 1, PnL: p}, {Timestamp: 2, PnL: p}}
	}
	return h
}

func standardDeltas() *mockStats {
	return &mockStats{deltas: map[domain.Period]float64{
		domain.PeriodAll: 1000, domain.PeriodMonth: 400, domain.PeriodWeek: 100, domain.PeriodDay: 20,
	}}
}

// --- tests ---

func TestReconstruct_ScrapedHistoryIsCached(t *testing.T) {
	scraped := domain.History{
		domain.Timeframe1D: {{Timestamp: 1000, PnL: 10}, {Timestamp: 2000, PnL: 12}},
	}
	scraper := &mockScraper{h: scraped}
	clk := &clock{t: now}
	r := history.New(scraper, standardDeltas(), &mockTrades{}, history.WithClock(clk.Now))

	h := r.Reconstruct(context.Background(), "0xABC")
	assert.Equal(t, scraped[domain.Timeframe1D], h[domain.Timeframe1D])
	// los timeframes sin datos quedan presentes y vacíos
	assert.NotNil(t, h[domain.TimeframeAll])
	assert.Empty(t, h[domain.TimeframeAll])

	r.Reconstruct(context.Background(), "0xabc")
	assert.Equal(t, 1, scraper.calls)

	clk.Advance(61 * time.Second)
	r.Reconstruct(context.Background(), "0xabc")
	assert.Equal(t, 2, scraper.calls)
}

func TestReconstruct_CallerCannotMutateCache(t *testing.T) {
	scraper := &mockScraper{h: domain.History{
		domain.Timeframe1D: {{Timestamp: 1000, PnL: 10}, {Timestamp: 2000, PnL: 12}},
	}}
	r := history.New(scraper, standardDeltas(), &mockTrades{}, history.WithClock(func() time.Time { return now }))

	h := r.Reconstruct(context.Background(), "0xabc")
	h[domain.Timeframe1D][0].PnL = -1

	again := r.Reconstruct(context.Background(), "0xabc")
	assert.Equal(t, 10.0, again[domain.Timeframe1D][0].PnL)
}

func TestReconstruct_FlatScrapeFallsBackToSynthetic(t *testing.T) {
	scraper := &mockScraper{h: flatHistory(500)}
	r := history.New(scraper, standardDeltas(), &mockTrades{}, history.WithClock(func() time.Time { return now }))

	h := r.Reconstruct(context.Background(), "0xabc")

	day := h[domain.Timeframe1D]
	require.Len(t, day, 48)
	assert.InDelta(t, 980.0, day[0].PnL, 1e-9)
	assert.Equal(t, 1000.0, day[47].PnL)

	month := h[domain.Timeframe1M]
	require.Len(t, month, 60)
	assert.InDelta(t, 600.0, month[0].PnL, 1e-9)
	assert.Equal(t, 1000.0, month[59].PnL)

	// el sintético no se cachea: el siguiente refresh vuelve a intentar el scrape
	r.Reconstruct(context.Background(), "0xabc")
	assert.Equal(t, 2, scraper.calls)
}

func TestReconstruct_ScrapeErrorFallsBack(t *testing.T) {
	scraper := &mockScraper{err: fmt.Errorf("boom: %w", domain.ErrScrapeFormat)}
	trades := &mockTrades{trades: []domain.Trade{
		{Timestamp: now.Add(-3 * time.Hour)},
		{Timestamp: now.Add(-30 * time.Hour)},
	}}
	r := history.New(scraper, standardDeltas(), trades, history.WithClock(func() time.Time { return now }))

	h := r.Reconstruct(context.Background(), "0xabc")
	for _, tf := range domain.Timeframes() {
		last, ok := h[tf].Last()
		require.True(t, ok, tf)
		assert.Equal(t, 1000.0, last.PnL, tf)
		assert.True(t, h[tf].Sorted(), tf)
	}
	// 1D: inicio + 1 trade + final
	assert.Len(t, h[domain.Timeframe1D], 3)
}

func TestReconstruct_SyntheticIsReproducible(t *testing.T) {
	scraper := &mockScraper{err: domain.ErrTransport}
	trades := &mockTrades{trades: []domain.Trade{
		{Timestamp: now.Add(-3 * time.Hour)},
		{Timestamp: now.Add(-5 * time.Hour)},
	}}
	r := history.New(scraper, standardDeltas(), trades, history.WithClock(func() time.Time { return now }))

	a := r.Reconstruct(context.Background(), "0xabc")
	b := r.Reconstruct(context.Background(), "0xabc")
	assert.Equal(t, a, b)
}

func TestReconstruct_PartialPeriodFailures(t *testing.T) {
	stats := standardDeltas()
	stats.failed = map[domain.Period]bool{domain.PeriodDay: true}
	r := history.New(&mockScraper{err: domain.ErrTransport}, stats, &mockTrades{err: errors.New("down")},
		history.WithClock(func() time.Time { return now }))

	h := r.Reconstruct(context.Background(), "0xabc")

	// DAY desconocido → delta 0 → línea plana en el total
	day := h[domain.Timeframe1D]
	require.Len(t, day, 48)
	assert.Equal(t, 1000.0, day[0].PnL)
	assert.Equal(t, 1000.0, day[47].PnL)
}

func TestReconstruct_PanickingInputCountsAsFailed(t *testing.T) {
	r := history.New(&mockScraper{err: domain.ErrTransport}, standardDeltas(), &mockTrades{panics: true},
		history.WithClock(func() time.Time { return now }))

	var h domain.History
	require.NotPanics(t, func() { h = r.Reconstruct(context.Background(), "0xabc") })

	// sin trades: interpolación de 980 a 1000
	day := h[domain.Timeframe1D]
	require.Len(t, day, 48)
	assert.InDelta(t, 980.0, day[0].PnL, 1e-9)
	assert.Equal(t, 1000.0, day[47].PnL)
}

func TestReconstruct_TotalOutageIsEmpty(t *testing.T) {
	stats := standardDeltas()
	stats.failed = map[domain.Period]bool{
		domain.PeriodAll: true, domain.PeriodMonth: true, domain.PeriodWeek: true, domain.PeriodDay: true,
	}
	r := history.New(&mockScraper{err: domain.ErrTransport}, stats, &mockTrades{err: errors.New("down")})

	h := r.Reconstruct(context.Background(), "0xabc")
	assert.Equal(t, domain.EmptyHistory(), h)
}

func TestReconstruct_ClearCache(t *testing.T) {
	scraper := &mockScraper{h: domain.History{
		domain.Timeframe1D: {{Timestamp: 1, PnL: 1}, {Timestamp: 2, PnL: 2}},
	}}
	r := history.New(scraper, standardDeltas(), &mockTrades{})

	r.Reconstruct(context.Background(), "0xabc")
	r.ClearCache()
	r.Reconstruct(context.Background(), "0xabc")
	assert.Equal(t, 2, scraper.calls)
}
