package ports

import (
	"context"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

// ProfileScraper extrae la historia de PnL embebida en la página de perfil.
// Devuelve errores envueltos en domain.ErrTransport o domain.ErrScrapeFormat.
type ProfileScraper interface {
	ProfilePnL(ctx context.Context, wallet string) (domain.History, error)
}

// HistoryProvider produce las cuatro series de PnL de un wallet. Nunca falla:
// en el peor caso devuelve domain.EmptyHistory().
type HistoryProvider interface {
	Reconstruct(ctx context.Context, wallet string) domain.History
}

// CacheClearer vacía una caché de respuestas. El refresh manual lo usa antes de empezar.
type CacheClearer interface {
	ClearCache()
}
