package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// PnLBreakdown es el resultado de agregar las posiciones de un trader.
type PnLBreakdown struct {
	CashPnl       float64 `json:"cashPnl"`
	CurrentValue  float64 `json:"currentValue"`
	InitialValue  float64 `json:"initialValue"`
	RealizedPnl   float64 `json:"realizedPnl"`
	UnrealizedPnl float64 `json:"unrealizedPnl"`
	TotalPnl      float64 `json:"totalPnl"`
}

// CategoryStat acumula cuántas posiciones y cuánto valor actual cae en una categoría.
type CategoryStat struct {
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// Aggregate suma los campos monetarios de todas las posiciones.
//
//	unrealized = cash - realized
//	total      = cash + realized
//
// Una lista vacía devuelve todo a cero. Las sumas se hacen en decimal para no
// arrastrar error de redondeo con cientos de posiciones.
func Aggregate(positions []Position) PnLBreakdown {
	cash, current, initial, realized := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero

	for _, p := range positions {
		cash = cash.Add(money(p.CashPnl))
		current = current.Add(money(p.CurrentValue))
		initial = initial.Add(money(p.InitialValue))
		realized = realized.Add(money(p.RealizedPnl))
	}

	return PnLBreakdown{
		CashPnl:       cash.InexactFloat64(),
		CurrentValue:  current.InexactFloat64(),
		InitialValue:  initial.InexactFloat64(),
		RealizedPnl:   realized.InexactFloat64(),
		UnrealizedPnl: cash.Sub(realized).InexactFloat64(),
		TotalPnl:      cash.Add(realized).InexactFloat64(),
	}
}

// CategoryBreakdown reparte las posiciones en categorías de mercado.
// Una posición cuenta en TODAS las categorías que matchea su título.
func CategoryBreakdown(positions []Position) map[string]CategoryStat {
	result := make(map[string]CategoryStat)
	for _, p := range positions {
		for _, cat := range Categorize(p.Title) {
			stat := result[cat]
			stat.Count++
			stat.Value += finite(p.CurrentValue)
			result[cat] = stat
		}
	}
	return result
}

// money convierte a decimal tratando NaN/Inf como 0 (decimal.NewFromFloat entra en pánico con ellos).
func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(finite(v))
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
