package dashboard

import (
	"sort"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

// GroupByTheme agrupa los traders por cada categoría de mercado en la que tienen
// exposición (un trader puede estar en varios grupos). Dentro de cada grupo,
// orden por PnL total descendente.
func GroupByTheme(results []domain.TraderResult) map[string][]domain.TraderResult {
	groups := make(map[string][]domain.TraderResult)
	for _, r := range results {
		for cat, stat := range r.Summary.MarketCategories {
			if stat.Count > 0 || stat.Value > 0 {
				groups[cat] = append(groups[cat], r)
			}
		}
	}
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].Summary.TotalPnl > g[j].Summary.TotalPnl
		})
	}
	return groups
}

// ThemeOrder devuelve las categorías con más traders primero; empate por nombre.
func ThemeOrder(groups map[string][]domain.TraderResult) []string {
	themes := make([]string, 0, len(groups))
	for k := range groups {
		themes = append(themes, k)
	}
	sort.Slice(themes, func(i, j int) bool {
		if len(groups[themes[i]]) != len(groups[themes[j]]) {
			return len(groups[themes[i]]) > len(groups[themes[j]])
		}
		return themes[i] < themes[j]
	})
	return themes
}
