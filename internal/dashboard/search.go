package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

const (
	searchPageSize    = 100
	searchMaxPages    = 5
	searchProbeLimit  = 10
	searchMinQueryLen = 2
)

// searchPeriods son los leaderboards donde se busca por nombre, en este orden.
var searchPeriods = []domain.Period{domain.PeriodAll, domain.PeriodMonth, domain.PeriodWeek}

// SearchTraders busca candidatos para la watchlist.
// Si la query parece un wallet se consulta directamente (stats y, si no está en el
// leaderboard, una página de posiciones). Si no, se recorren los leaderboards y se
// filtra por nombre o wallet. Resultados sin duplicados, ordenados por PnL desc.
func (o *Orchestrator) SearchTraders(ctx context.Context, query string) ([]domain.SearchResult, error) {
	q := strings.TrimSpace(query)
	if len(q) < searchMinQueryLen {
		return []domain.SearchResult{}, nil
	}

	var (
		results []domain.SearchResult
		err     error
	)
	if domain.LooksLikeWallet(q) {
		results, err = o.searchWallet(ctx, q)
	} else {
		results, err = o.searchLeaderboards(ctx, strings.ToLower(q))
	}
	if err != nil {
		return nil, err
	}
	domain.SortByPnLDesc(results)
	return results, nil
}

func (o *Orchestrator) searchWallet(ctx context.Context, wallet string) ([]domain.SearchResult, error) {
	stats, err := o.p.Stats.UserStats(ctx, wallet)
	if err != nil {
		slog.Debug("wallet search: stats failed", "wallet", wallet, "err", err)
	}
	if err == nil && (stats.TotalPnl != 0 || stats.TotalVolume != 0 || stats.UserName != "") {
		name := stats.UserName
		if name == "" {
			name = domain.ShortWallet(wallet)
		}
		return []domain.SearchResult{{
			LeaderboardRow: domain.LeaderboardRow{
				Wallet:   wallet,
				UserName: name,
				PnL:      stats.TotalPnl,
				Volume:   stats.TotalVolume,
				Rank:     stats.Rank,
			},
			Source: domain.SourceDirect,
		}}, nil
	}

	positions, err := o.p.Positions.Positions(ctx, wallet, domain.PositionQuery{Limit: searchProbeLimit})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("dashboard.SearchTraders: %w", ctx.Err())
		}
		slog.Debug("wallet search: positions failed", "wallet", wallet, "err", err)
		return []domain.SearchResult{}, nil
	}
	if len(positions) == 0 {
		return []domain.SearchResult{}, nil
	}
	return []domain.SearchResult{{
		LeaderboardRow: domain.LeaderboardRow{
			Wallet:   wallet,
			UserName: domain.ShortWallet(wallet),
			PnL:      domain.Aggregate(positions).CashPnl,
		},
		PositionCount:    len(positions),
		Source:           domain.SourcePositions,
		NotOnLeaderboard: true,
	}}, nil
}

// searchLeaderboards pide todas las páginas en paralelo. Las páginas que fallan
// se ignoran; el primer resultado para cada wallet gana.
func (o *Orchestrator) searchLeaderboards(ctx context.Context, needle string) ([]domain.SearchResult, error) {
	pages := make([][]domain.LeaderboardRow, len(searchPeriods)*searchMaxPages)

	var (
		g     errgroup.Group
		guard panicGuard
	)
	for pi, period := range searchPeriods {
		for page := 0; page < searchMaxPages; page++ {
			idx := pi*searchMaxPages + page
			g.Go(guard.wrap(func() error {
				rows, err := o.p.Leaderboard.Leaderboard(ctx, domain.LeaderboardQuery{
					TimePeriod: period,
					Category:   "OVERALL",
					OrderBy:    "PNL",
					Limit:      searchPageSize,
					Offset:     page * searchPageSize,
				})
				if err != nil {
					slog.Debug("leaderboard page failed", "period", period, "page", page, "err", err)
					return nil
				}
				pages[idx] = rows
				return nil
			}))
		}
	}
	var profiles []domain.Profile
	if o.p.Profiles != nil {
		g.Go(guard.wrap(func() error {
			var err error
			profiles, err = o.p.Profiles.SearchProfiles(ctx, needle)
			if err != nil {
				slog.Debug("profile search failed", "query", needle, "err", err)
			}
			return nil
		}))
	}
	_ = g.Wait()
	if err := guard.err(); err != nil {
		return nil, fmt.Errorf("dashboard.SearchTraders: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dashboard.SearchTraders: %w", err)
	}

	seen := make(map[string]struct{})
	results := []domain.SearchResult{}
	for _, rows := range pages {
		for _, row := range rows {
			key := domain.NormalizeWallet(row.Wallet)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			if !strings.Contains(strings.ToLower(row.UserName), needle) && !strings.Contains(key, needle) {
				continue
			}
			seen[key] = struct{}{}
			if row.UserName == "" {
				row.UserName = domain.ShortWallet(key)
			}
			results = append(results, domain.SearchResult{
				LeaderboardRow: row,
				Source:         domain.SourceLeaderboard,
			})
		}
	}

	// Perfiles de Gamma que no aparecen en ninguna página del leaderboard.
	for _, p := range profiles {
		key := domain.NormalizeWallet(p.Wallet)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		name := p.Name
		if name == "" {
			name = p.Pseudonym
		}
		if name == "" {
			name = domain.ShortWallet(key)
		}
		results = append(results, domain.SearchResult{
			LeaderboardRow: domain.LeaderboardRow{
				Wallet:       p.Wallet,
				UserName:     name,
				ProfileImage: p.ProfileImage,
			},
			Source:           domain.SourceProfile,
			NotOnLeaderboard: true,
		})
	}
	return results, nil
}
