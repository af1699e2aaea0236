package ports

import (
	"context"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

// Notifier presenta los resultados de un ciclo de refresh al usuario.
type Notifier interface {
	// Notify muestra los traders ordenados por PnL total.
	// En la implementación de consola, imprime una tabla formateada.
	Notify(ctx context.Context, results []domain.TraderResult) error
}
