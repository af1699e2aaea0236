package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

// TradeProvider obtiene fills históricos de un wallet.
type TradeProvider interface {
	Trades(ctx context.Context, wallet string, q domain.TradeQuery) ([]domain.Trade, error)

	// RecentTrades pagina de 100 en 100 hasta max trades o una página corta.
	RecentTrades(ctx context.Context, wallet string, max int) ([]domain.Trade, error)

	// FirstTradeDate devuelve el timestamp más antiguo conocido, o nil si no hay trades.
	FirstTradeDate(ctx context.Context, wallet string) (*time.Time, error)
}

// ActivityProvider obtiene el feed de actividad reciente.
type ActivityProvider interface {
	Activity(ctx context.Context, wallet string, q domain.ActivityQuery) ([]domain.Activity, error)
}
