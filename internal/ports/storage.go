package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

// KVStore es un almacén clave-valor local. La watchlist se guarda serializada bajo una única clave.
type KVStore interface {
	// Get devuelve el valor y false si la clave no existe.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put escribe (o reemplaza) el valor de la clave.
	Put(ctx context.Context, key string, value []byte) error

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}

// CycleStore guarda el histórico ligero de ciclos de refresh.
type CycleStore interface {
	SaveCycle(ctx context.Context, c domain.RefreshCycle) error
	// RecentCycles devuelve ciclos con StartedAt >= since, el más reciente primero.
	RecentCycles(ctx context.Context, since time.Time) ([]domain.RefreshCycle, error)
}
