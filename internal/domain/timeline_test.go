package domain

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestBuildTimeline_EvenWithoutTrades(t *testing.T) {
	start := testNow.Add(-24 * time.Hour)
	s := BuildTimeline(start, testNow, 980, 1000, 48, nil, nil)

	require.Len(t, s, 48)
	assert.Equal(t, start.UnixMilli(), s[0].Timestamp)
	assert.InDelta(t, 980.0, s[0].PnL, 1e-9)
	assert.Equal(t, testNow.UnixMilli(), s[47].Timestamp)
	assert.Equal(t, 1000.0, s[47].PnL)
	assert.True(t, s.Sorted())

	// interpolación lineal en un punto intermedio
	assert.InDelta(t, 980+20*10.0/47.0, s[10].PnL, 1e-9)
}

func TestBuildTimeline_TwoPointsIgnoresTrades(t *testing.T) {
	start := testNow.Add(-time.Hour)
	trades := []Trade{{Timestamp: testNow.Add(-30 * time.Minute)}}

	s := BuildTimeline(start, testNow, 0, 10, 2, trades, NewJitterSource("w", Timeframe1D))
	require.Len(t, s, 2)
	assert.Equal(t, 0.0, s[0].PnL)
	assert.Equal(t, 10.0, s[1].PnL)
}

func TestBuildTimeline_DegenerateInputs(t *testing.T) {
	s := BuildTimeline(testNow, testNow, 5, 7, 48, nil, nil)
	assert.Equal(t, Series{{Timestamp: testNow.UnixMilli(), PnL: 7}}, s)

	s = BuildTimeline(testNow.Add(-time.Hour), testNow, 5, 7, 1, nil, nil)
	assert.Equal(t, Series{{Timestamp: testNow.UnixMilli(), PnL: 7}}, s)
}

func TestBuildTimeline_WithTradesAppendsEndpoint(t *testing.T) {
	start := testNow.Add(-24 * time.Hour)
	trades := []Trade{
		{Timestamp: testNow.Add(-2 * time.Hour)},
		{Timestamp: testNow.Add(-20 * time.Hour)},
		{Timestamp: testNow.Add(-48 * time.Hour)}, // fuera de la ventana
		{Timestamp: testNow.Add(-10 * time.Hour)},
	}

	s := BuildTimeline(start, testNow, 0, 1000, 48, trades, NewJitterSource("0xabc", Timeframe1D))

	require.Len(t, s, 5)
	assert.Equal(t, PnLPoint{Timestamp: start.UnixMilli(), PnL: 0}, s[0])
	assert.Equal(t, PnLPoint{Timestamp: testNow.UnixMilli(), PnL: 1000}, s[4])
	assert.True(t, s.Sorted())

	// jitter acotado a ±2% del swing
	duration := float64(testNow.Sub(start).Milliseconds())
	for _, p := range s[1:4] {
		linear := 1000 * float64(p.Timestamp-start.UnixMilli()) / duration
		assert.LessOrEqual(t, math.Abs(p.PnL-linear), 0.02*1000+1e-9)
	}
}

func TestBuildTimeline_LastTradeNearEndIsOverwritten(t *testing.T) {
	start := testNow.Add(-24 * time.Hour)
	last := testNow.Add(-30 * time.Second)
	trades := []Trade{
		{Timestamp: testNow.Add(-5 * time.Hour)},
		{Timestamp: last},
	}

	s := BuildTimeline(start, testNow, 100, 200, 48, trades, NewJitterSource("0xabc", Timeframe1D))

	require.Len(t, s, 3)
	assert.Equal(t, last.UnixMilli(), s[2].Timestamp)
	assert.Equal(t, 200.0, s[2].PnL)
}

func TestBuildTimeline_NilSourceNoJitter(t *testing.T) {
	start := testNow.Add(-10 * time.Hour)
	trades := []Trade{{Timestamp: testNow.Add(-5 * time.Hour)}}

	s := BuildTimeline(start, testNow, 0, 100, 10, trades, nil)
	require.Len(t, s, 3)
	assert.InDelta(t, 50.0, s[1].PnL, 1e-9)
}

func TestBuildTimeline_ReproduciblePerWalletAndTimeframe(t *testing.T) {
	start := testNow.Add(-7 * 24 * time.Hour)
	trades := []Trade{
		{Timestamp: testNow.Add(-3 * 24 * time.Hour)},
		{Timestamp: testNow.Add(-2 * 24 * time.Hour)},
		{Timestamp: testNow.Add(-1 * 24 * time.Hour)},
	}

	a := BuildTimeline(start, testNow, 0, 500, 84, trades, NewJitterSource("0xabc", Timeframe1W))
	b := BuildTimeline(start, testNow, 0, 500, 84, trades, NewJitterSource("0xabc", Timeframe1W))
	c := BuildTimeline(start, testNow, 0, 500, 84, trades, NewJitterSource("0xdef", Timeframe1W))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSyntheticHistory_NoTrades(t *testing.T) {
	deltas := map[Period]float64{PeriodAll: 1000, PeriodMonth: 400, PeriodWeek: 100, PeriodDay: 20}

	h := SyntheticHistory(testNow, deltas, nil, nil)

	day := h[Timeframe1D]
	require.Len(t, day, 48)
	assert.InDelta(t, 980.0, day[0].PnL, 1e-9)
	assert.Equal(t, 1000.0, day[47].PnL)

	month := h[Timeframe1M]
	require.Len(t, month, 60)
	assert.InDelta(t, 600.0, month[0].PnL, 1e-9)
	assert.Equal(t, 1000.0, month[59].PnL)

	week := h[Timeframe1W]
	require.Len(t, week, 84)
	assert.InDelta(t, 900.0, week[0].PnL, 1e-9)

	all := h[TimeframeAll]
	require.Len(t, all, 100)
	assert.Equal(t, 0.0, all[0].PnL)
	assert.Equal(t, testNow.Add(-180*24*time.Hour).UnixMilli(), all[0].Timestamp)
	assert.Equal(t, 1000.0, all[99].PnL)
}

func TestSyntheticHistory_EndpointsWithTrades(t *testing.T) {
	deltas := map[Period]float64{PeriodAll: -350, PeriodMonth: -50, PeriodWeek: 25, PeriodDay: 3}
	var trades []Trade
	for i := 1; i <= 200; i++ {
		trades = append(trades, Trade{Timestamp: testNow.Add(-time.Duration(i) * 97 * time.Minute)})
	}

	h := SyntheticHistory(testNow, deltas, trades, func(tf Timeframe) *rand.Rand {
		return NewJitterSource("0xabc", tf)
	})

	for _, tf := range Timeframes() {
		s := h[tf]
		require.NotEmpty(t, s, tf)
		last, _ := s.Last()
		assert.Equal(t, -350.0, last.PnL, tf)
		assert.True(t, s.Sorted(), tf)
	}
}

func TestSyntheticHistory_AllStartsAtOldTrade(t *testing.T) {
	old := testNow.Add(-400 * 24 * time.Hour)
	trades := []Trade{
		{Timestamp: testNow.Add(-time.Hour)},
		{Timestamp: old},
	}

	h := SyntheticHistory(testNow, map[Period]float64{PeriodAll: 10}, trades, nil)
	assert.Equal(t, old.UnixMilli(), h[TimeframeAll][0].Timestamp)
}

func TestMinimalSeries(t *testing.T) {
	s := MinimalSeries(testNow, 1000, 150)
	assert.Equal(t, Series{
		{Timestamp: testNow.Add(-30 * 24 * time.Hour).UnixMilli(), PnL: 850},
		{Timestamp: testNow.UnixMilli(), PnL: 1000},
	}, s)
}

func TestHistory_HasVariation(t *testing.T) {
	flat := History{
		Timeframe1D:  {{1, 500}, {2, 500}},
		Timeframe1W:  {{1, 500}},
		Timeframe1M:  {{1, 500}, {3, 500}},
		TimeframeAll: {{1, 500}},
	}
	assert.False(t, flat.HasVariation())
	assert.False(t, EmptyHistory().HasVariation())

	// la variación puede venir de timeframes distintos
	mixed := History{
		Timeframe1D: {{1, 500}},
		Timeframe1W: {{1, 501}},
	}
	assert.True(t, mixed.HasVariation())
}

func TestHistory_CloneIsDeep(t *testing.T) {
	h := History{Timeframe1D: {{1, 1}}}
	c := h.Clone()
	c[Timeframe1D][0].PnL = 99
	assert.Equal(t, 1.0, h[Timeframe1D][0].PnL)
}
