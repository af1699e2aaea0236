package domain

import (
	"math"
	"strings"
)

// StrategyKind es uno de los ocho arquetipos de trader.
type StrategyKind string

const (
	StrategyArbitrage    StrategyKind = "arbitrage"
	StrategyLiquidity    StrategyKind = "liquidity"
	StrategyQuant        StrategyKind = "quant"
	StrategyMeta         StrategyKind = "meta"
	StrategyEventDriven  StrategyKind = "eventDriven"
	StrategyConviction   StrategyKind = "conviction"
	StrategyMomentum     StrategyKind = "momentum"
	StrategyConservative StrategyKind = "conservative"
)

// minMeaningfulScore es el umbral para secundaria y para aceptar el argmax sin override.
const minMeaningfulScore = 20

// StrategyKinds devuelve los arquetipos en orden de desempate.
func StrategyKinds() []StrategyKind {
	return []StrategyKind{
		StrategyArbitrage, StrategyLiquidity, StrategyQuant, StrategyMeta,
		StrategyEventDriven, StrategyConviction, StrategyMomentum, StrategyConservative,
	}
}

// StrategyInfo es la metadata de display de un arquetipo.
type StrategyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var strategyInfo = map[StrategyKind]StrategyInfo{
	StrategyArbitrage: {"Arbitrage",
		"Exploits price inefficiencies: high volume-to-PnL ratio (>30x), many positions (>40), profits from small price differences"},
	StrategyLiquidity: {"Liquidity",
		"Market maker providing liquidity: extremely high volume (>$10M), very high volume-to-PnL ratio (>50x), consistent small gains"},
	StrategyQuant: {"Quant",
		"Algorithmic/systematic trading: bot-like name or high volume (>$5M) with many positions (>30)"},
	StrategyMeta: {"Meta",
		"Diversified strategic trading: 5+ market categories, balanced exposure"},
	StrategyEventDriven: {"Event-Driven",
		"Trades around catalysts: >70% exposure in politics/sports/entertainment"},
	StrategyConviction: {"Conviction",
		"High-conviction focused bets: few positions (<15) with large PnL (>$50K)"},
	StrategyMomentum: {"Momentum",
		"Trend-following: moderate positions (10-40), good returns relative to volume"},
	StrategyConservative: {"Conservative",
		"Risk-averse trading: low daily volatility (<1% of total PnL), steady returns"},
}

// Info devuelve nombre y descripción del arquetipo.
func (k StrategyKind) Info() StrategyInfo {
	return strategyInfo[k]
}

// Classification es la etiqueta derivada de un TraderSummary. Nunca se persiste.
type Classification struct {
	Primary    StrategyKind         `json:"primary"`
	Secondary  *StrategyKind        `json:"secondary"`
	Scores     map[StrategyKind]int `json:"scores"`
	Confidence int                  `json:"confidence"`
}

// TraderMetrics son los ratios derivados del resumen que usan las reglas.
type TraderMetrics struct {
	PositionCount      int
	TotalVolume        float64
	TotalPnl           float64
	AbsPnl             float64
	CurrentValue       float64
	CategoryCount      int
	VolumeToPnlRatio   float64
	PnLPerPosition     float64
	VolumePerPosition  float64
	EventConcentration float64
	PoliticsShare      float64
	SportsShare        float64
	MaxCategoryShare   float64
	DailyVolatility    float64
	WeekChange         float64
}

var eventCategories = []string{"politics", "sports", "entertainment"}

// ComputeMetrics deriva los ratios que consume Classify.
func ComputeMetrics(s TraderSummary) TraderMetrics {
	m := TraderMetrics{
		PositionCount: s.PositionCount,
		TotalVolume:   finite(s.TotalVolume),
		TotalPnl:      finite(s.TotalPnl),
		CurrentValue:  finite(s.CurrentValue),
	}
	m.AbsPnl = math.Abs(m.TotalPnl)

	if m.AbsPnl > 0 {
		m.VolumeToPnlRatio = m.TotalVolume / m.AbsPnl
	}
	if m.PositionCount > 0 {
		m.PnLPerPosition = m.AbsPnl / float64(m.PositionCount)
		m.VolumePerPosition = m.TotalVolume / float64(m.PositionCount)
	}

	var totalValue float64
	for _, c := range s.MarketCategories {
		if c.Count > 0 {
			m.CategoryCount++
		}
		totalValue += c.Value
	}

	m.MaxCategoryShare = 1
	if totalValue > 0 {
		var eventValue float64
		for _, cat := range eventCategories {
			eventValue += s.MarketCategories[cat].Value
		}
		m.EventConcentration = eventValue / totalValue
		m.PoliticsShare = s.MarketCategories["politics"].Value / totalValue
		m.SportsShare = s.MarketCategories["sports"].Value / totalValue

		m.MaxCategoryShare = 0
		for _, c := range s.MarketCategories {
			m.MaxCategoryShare = math.Max(m.MaxCategoryShare, c.Value/totalValue)
		}
	}

	dayChange := s.PnLHistory[Timeframe1D].Change()
	m.WeekChange = s.PnLHistory[Timeframe1W].Change()
	if m.AbsPnl > 0 {
		m.DailyVolatility = math.Abs(dayChange) / m.AbsPnl
	}
	return m
}

// Classify puntúa el resumen contra los ocho arquetipos y elige primaria y secundaria.
// Es una función pura: misma entrada, misma salida.
func Classify(s TraderSummary) Classification {
	m := ComputeMetrics(s)
	scores := make(map[StrategyKind]int, 8)
	for _, k := range StrategyKinds() {
		scores[k] = 0
	}
	add := func(k StrategyKind, cond bool, pts int) {
		if cond {
			scores[k] += pts
		}
	}

	n := m.PositionCount
	vol, ratio := m.TotalVolume, m.VolumeToPnlRatio

	add(StrategyQuant, looksLikeBot(s.Name), 60)
	add(StrategyQuant, vol > 5_000_000 && n > 30, 25)
	add(StrategyQuant, vol > 10_000_000 && n > 50, 20)
	add(StrategyQuant, n > 20 && m.VolumePerPosition > 50_000 && m.VolumePerPosition < 500_000, 15)

	add(StrategyLiquidity, vol > 10_000_000 && ratio > 50, 40)
	add(StrategyLiquidity, vol > 50_000_000 && ratio > 30, 30)
	add(StrategyLiquidity, n > 50 && vol > 5_000_000, 20)
	add(StrategyLiquidity, ratio > 100, 25)

	add(StrategyArbitrage, ratio > 30 && ratio < 100 && n > 40, 35)
	add(StrategyArbitrage, n > 40 && n < 150, 25)
	add(StrategyArbitrage, ratio > 20 && ratio < 60 && n > 25, 20)

	add(StrategyMeta, m.CategoryCount >= 5, 35)
	add(StrategyMeta, m.CategoryCount >= 7, 20)
	add(StrategyMeta, m.MaxCategoryShare < 0.4 && m.CategoryCount >= 4, 20)
	add(StrategyMeta, n >= 15 && n <= 60 && m.CategoryCount >= 4, 15)

	ec := m.EventConcentration
	add(StrategyEventDriven, ec > 0.7, 40)
	add(StrategyEventDriven, ec > 0.5 && ec <= 0.7, 25)
	add(StrategyEventDriven, ec > 0.6 && n >= 5 && n <= 40, 20)
	add(StrategyEventDriven, m.PoliticsShare > 0.5 || m.SportsShare > 0.5, 15)

	add(StrategyConviction, n < 15 && m.AbsPnl > 50_000, 35)
	add(StrategyConviction, n < 10 && m.AbsPnl > 100_000, 25)
	add(StrategyConviction, m.PnLPerPosition > 10_000 && n < 20, 20)
	add(StrategyConviction, n < 12 && m.CurrentValue > 10_000, 15)

	pnl := m.TotalPnl
	add(StrategyMomentum, n >= 10 && n <= 40 && pnl > 0, 25)
	add(StrategyMomentum, ratio > 5 && ratio < 25 && pnl > 0, 20)
	add(StrategyMomentum, pnl > 50_000 && n >= 10 && n <= 50, 20)
	add(StrategyMomentum, ec < 0.5 && n >= 10, 10)

	dv := m.DailyVolatility
	add(StrategyConservative, dv < 0.01 && m.AbsPnl > 10_000, 30)
	add(StrategyConservative, dv < 0.005 && m.AbsPnl > 5_000, 25)
	add(StrategyConservative, pnl > 0 && dv < 0.02 && m.WeekChange > 0, 20)
	add(StrategyConservative, ratio < 15 && pnl > 0, 15)

	return selectStrategy(scores, m)
}

func selectStrategy(scores map[StrategyKind]int, m TraderMetrics) Classification {
	maxScore := 0
	primary := StrategyMomentum
	for _, k := range StrategyKinds() {
		if scores[k] > maxScore {
			maxScore = scores[k]
			primary = k
		}
	}

	var secondary *StrategyKind
	secondScore := 0
	for _, k := range StrategyKinds() {
		if k == primary {
			continue
		}
		if sc := scores[k]; sc > secondScore && sc >= minMeaningfulScore {
			kind := k
			secondary, secondScore = &kind, sc
		}
	}

	if maxScore < minMeaningfulScore {
		switch {
		case m.PositionCount < 10:
			primary = StrategyConviction
		case m.CategoryCount >= 4:
			primary = StrategyMeta
		default:
			primary = StrategyMomentum
		}
	}

	return Classification{
		Primary:    primary,
		Secondary:  secondary,
		Scores:     scores,
		Confidence: maxScore,
	}
}

func looksLikeBot(name string) bool {
	lower := strings.ToLower(name)
	for _, token := range []string{"bot", "automated", "algo", "ai trading"} {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}
