package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestNewTraderSummary_LeaderboardPnlWins(t *testing.T) {
	positions := []Position{
		{Title: "Will Trump win?", CashPnl: 100, RealizedPnl: 40, CurrentValue: 30},
	}
	s := NewTraderSummary("0xabc", positions, UserStats{TotalPnl: 5000, TotalVolume: 12345, Rank: intPtr(7), UserName: "alice"})

	assert.Equal(t, 1, s.PositionCount)
	assert.Equal(t, 5000.0, s.TotalPnl)
	assert.InDelta(t, 60.0, s.UnrealizedPnl, 1e-9)
	assert.Equal(t, 12345.0, s.TotalVolume)
	assert.Equal(t, 7, *s.LeaderboardRank)
	assert.Equal(t, CategoryStat{Count: 1, Value: 30}, s.MarketCategories["politics"])
	assert.NotNil(t, s.RecentActivity)
}

func TestDegradedSummary_KeepsStaleFields(t *testing.T) {
	first := time.Unix(1_700_000_000, 0)
	prev := &TraderSummary{
		FirstTradeDate: &first,
		PeriodPnLs:     map[Period]PeriodPnL{PeriodDay: {PnL: 5}},
		PnLHistory:     History{Timeframe1D: {{1, 1}, {2, 2}}},
		PositionCount:  9,
	}

	s := DegradedSummary("0xabc", prev)
	assert.Equal(t, 0, s.PositionCount)
	assert.Equal(t, &first, s.FirstTradeDate)
	assert.Equal(t, prev.PeriodPnLs, s.PeriodPnLs)
	assert.Equal(t, prev.PnLHistory, s.PnLHistory)

	empty := DegradedSummary("0xabc", nil)
	assert.Nil(t, empty.PnLHistory)
	assert.Empty(t, empty.Positions)
}

func TestPnLForTimeframe_FromHistory(t *testing.T) {
	s := TraderSummary{PnLHistory: History{
		Timeframe1W:  {{1, 100}, {2, 80}, {3, 130}},
		TimeframeAll: {{1, 0}, {2, 900}},
	}}
	assert.Equal(t, 30.0, PnLForTimeframe(s, Timeframe1W))
	assert.Equal(t, 900.0, PnLForTimeframe(s, TimeframeAll))
}

func TestPnLForTimeframe_FallsBackToPeriods(t *testing.T) {
	s := TraderSummary{PeriodPnLs: map[Period]PeriodPnL{
		PeriodDay: {PnL: -12},
		PeriodAll: {PnL: 400},
	}}
	assert.Equal(t, -12.0, PnLForTimeframe(s, Timeframe1D))
	assert.Equal(t, 0.0, PnLForTimeframe(s, Timeframe1M))
	assert.Equal(t, 400.0, PnLForTimeframe(s, TimeframeAll))

	s.TotalPnl = 450
	assert.Equal(t, 450.0, PnLForTimeframe(s, TimeframeAll))
}

func TestTimeframe_Mapping(t *testing.T) {
	assert.Equal(t, PeriodDay, Timeframe1D.Period())
	assert.Equal(t, PeriodMonth, Timeframe1M.Period())
	assert.Equal(t, 84, Timeframe1W.Points())
	assert.Equal(t, 180*24*time.Hour, TimeframeAll.Window())

	tf, ok := ParseTimeframe("1M")
	assert.True(t, ok)
	assert.Equal(t, Timeframe1M, tf)
	_, ok = ParseTimeframe("2D")
	assert.False(t, ok)
}
