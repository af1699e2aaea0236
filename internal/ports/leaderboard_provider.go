package ports

import (
	"context"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

// StatsProvider lee las filas del leaderboard de un wallet concreto.
type StatsProvider interface {
	UserStats(ctx context.Context, wallet string) (domain.UserStats, error)
	PeriodPnL(ctx context.Context, wallet string, period domain.Period) (domain.PeriodPnL, error)
}

// LeaderboardProvider lista el leaderboard global.
type LeaderboardProvider interface {
	Leaderboard(ctx context.Context, q domain.LeaderboardQuery) ([]domain.LeaderboardRow, error)
}

// ProfileSearcher busca perfiles por nombre en la Gamma API.
type ProfileSearcher interface {
	SearchProfiles(ctx context.Context, query string) ([]domain.Profile, error)
}
