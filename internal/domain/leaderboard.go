package domain

import (
	"sort"
	"strings"
)

// LeaderboardRow es una fila del leaderboard ya normalizada.
type LeaderboardRow struct {
	Wallet       string  `json:"wallet"`
	UserName     string  `json:"userName"`
	PnL          float64 `json:"pnl"`
	Volume       float64 `json:"vol"`
	Rank         *int    `json:"rank,omitempty"`
	ProfileImage string  `json:"profileImage,omitempty"`
}

// Profile es un resultado de búsqueda de la Gamma API.
type Profile struct {
	Name         string `json:"name"`
	Pseudonym    string `json:"pseudonym,omitempty"`
	Wallet       string `json:"proxyWallet"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// SearchSource indica de dónde salió un resultado de búsqueda.
type SearchSource string

const (
	SourceDirect      SearchSource = "direct"
	SourcePositions   SearchSource = "positions"
	SourceLeaderboard SearchSource = "leaderboard"
	SourceProfile     SearchSource = "profile"
)

// SearchResult es un candidato a añadir a la watchlist.
type SearchResult struct {
	LeaderboardRow
	PositionCount    int          `json:"positionCount,omitempty"`
	Source           SearchSource `json:"source"`
	NotOnLeaderboard bool         `json:"notOnLeaderboard,omitempty"`
}

// Thresholds filtra filas del leaderboard. Ceros → defaults (minPnl 0, minVolume 0, maxRank 100).
type Thresholds struct {
	MinPnl    float64
	MinVolume float64
	MaxRank   int
}

// unrankedRank es el rank que se asume cuando la fila no trae uno.
const unrankedRank = 999

// FilterByThresholds devuelve las filas que superan los umbrales, en el mismo orden.
func FilterByThresholds(rows []LeaderboardRow, th Thresholds) []LeaderboardRow {
	maxRank := th.MaxRank
	if maxRank <= 0 {
		maxRank = 100
	}

	out := make([]LeaderboardRow, 0, len(rows))
	for _, r := range rows {
		rank := unrankedRank
		if r.Rank != nil && *r.Rank != 0 {
			rank = *r.Rank
		}
		if r.PnL >= th.MinPnl && r.Volume >= th.MinVolume && rank <= maxRank {
			out = append(out, r)
		}
	}
	return out
}

// ShortWallet abrevia una dirección a "0x1234...abcd".
func ShortWallet(wallet string) string {
	if len(wallet) <= 10 {
		return wallet
	}
	return wallet[:6] + "..." + wallet[len(wallet)-4:]
}

// LooksLikeWallet: empieza por 0x y tiene al menos 10 caracteres.
func LooksLikeWallet(q string) bool {
	return len(q) >= 10 && strings.HasPrefix(strings.ToLower(q), "0x")
}

// SortByPnLDesc ordena resultados de búsqueda de mayor a menor PnL.
func SortByPnLDesc(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].PnL > results[j].PnL
	})
}
