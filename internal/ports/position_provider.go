package ports

import (
	"context"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

// PositionProvider obtiene las posiciones abiertas de un wallet desde la Data API.
type PositionProvider interface {
	// Positions devuelve una página. Los campos a cero de q toman los defaults.
	Positions(ctx context.Context, wallet string, q domain.PositionQuery) ([]domain.Position, error)

	// AllPositions pagina de 100 en 100 con un tope de 500 posiciones.
	AllPositions(ctx context.Context, wallet string) ([]domain.Position, error)

	// PortfolioValue devuelve el valor actual del portfolio (0 si no hay dato).
	PortfolioValue(ctx context.Context, wallet string) (float64, error)
}
