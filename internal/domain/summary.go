package domain

import "time"

// UserStats es la fila ALL del leaderboard para un wallet.
type UserStats struct {
	TotalPnl    float64 `json:"totalPnl"`
	TotalVolume float64 `json:"totalVolume"`
	Rank        *int    `json:"rank,omitempty"`
	UserName    string  `json:"userName,omitempty"`
}

// PeriodPnL es el delta de PnL (y volumen) de un trader dentro de un periodo.
type PeriodPnL struct {
	PnL    float64 `json:"pnl"`
	Volume float64 `json:"volume"`
	Rank   *int    `json:"rank,omitempty"`
}

// TraderSummary es todo lo que el dashboard sabe de un wallet en un ciclo de refresh.
// Se recalcula en cada ciclo; no se persiste.
type TraderSummary struct {
	Wallet string `json:"wallet"`
	// Name es el nombre con el que se sigue al trader (watchlist) o, si falta, el del leaderboard.
	Name string `json:"name"`

	Positions     []Position `json:"positions"`
	PositionCount int        `json:"positionCount"`
	PnLBreakdown

	TotalVolume      float64                 `json:"totalVolume"`
	LeaderboardRank  *int                    `json:"leaderboardRank,omitempty"`
	UserName         string                  `json:"userName,omitempty"`
	MarketCategories map[string]CategoryStat `json:"marketCategories"`

	// Solo en refresh completo; en quick refresh se arrastran del ciclo anterior.
	PeriodPnLs     map[Period]PeriodPnL `json:"periodPnLs,omitempty"`
	RecentActivity []Activity           `json:"recentActivity"`
	FirstTradeDate *time.Time           `json:"firstTradeDate,omitempty"`
	PnLHistory     History              `json:"pnlHistory,omitempty"`
	PortfolioValue float64              `json:"portfolioValue,omitempty"`
}

// NewTraderSummary arma el resumen a partir de posiciones y stats del leaderboard.
// El PnL total que manda es el del leaderboard, no la suma de posiciones abiertas:
// las posiciones ya cerradas no aparecen en /positions.
func NewTraderSummary(wallet string, positions []Position, stats UserStats) TraderSummary {
	if positions == nil {
		positions = []Position{}
	}
	s := TraderSummary{
		Wallet:           wallet,
		Positions:        positions,
		PositionCount:    len(positions),
		PnLBreakdown:     Aggregate(positions),
		TotalVolume:      stats.TotalVolume,
		LeaderboardRank:  stats.Rank,
		UserName:         stats.UserName,
		MarketCategories: CategoryBreakdown(positions),
		RecentActivity:   []Activity{},
	}
	s.TotalPnl = stats.TotalPnl
	return s
}

// DegradedSummary es el resultado de un trader cuyo fetch falló:
// stats a cero, conservando lo que se sabía del ciclo anterior.
func DegradedSummary(wallet string, prev *TraderSummary) TraderSummary {
	s := TraderSummary{
		Wallet:           wallet,
		Positions:        []Position{},
		MarketCategories: map[string]CategoryStat{},
		RecentActivity:   []Activity{},
	}
	if prev != nil {
		s.FirstTradeDate = prev.FirstTradeDate
		s.PeriodPnLs = prev.PeriodPnLs
		s.PnLHistory = prev.PnLHistory
	}
	return s
}

// PnLForTimeframe devuelve la cifra que se muestra para un timeframe:
// ALL → último valor acumulado, resto → last - first. Sin historia usa periodPnLs.
func PnLForTimeframe(s TraderSummary, tf Timeframe) float64 {
	if series := s.PnLHistory[tf]; len(series) > 0 {
		last, _ := series.Last()
		if tf == TimeframeAll {
			return last.PnL
		}
		return last.PnL - series[0].PnL
	}

	if tf == TimeframeAll {
		if s.TotalPnl != 0 {
			return s.TotalPnl
		}
		return s.PeriodPnLs[PeriodAll].PnL
	}
	return s.PeriodPnLs[tf.Period()].PnL
}

// PeriodDelta devuelve el delta conocido para el timeframe, 0 si no hay dato.
func (s TraderSummary) PeriodDelta(tf Timeframe) float64 {
	return s.PeriodPnLs[tf.Period()].PnL
}
