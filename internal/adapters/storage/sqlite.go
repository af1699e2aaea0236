package storage

// sqlite.go — persistencia local mínima.
//
// Estrategia:
//   - `kv`: almacén clave-valor. La watchlist vive serializada bajo una sola clave,
//     se lee al arrancar y se reescribe entera en cada cambio.
//   - `refresh_cycles`: resumen ligero por ciclo de refresh (traders, fallos,
//     mejor PnL). Siempre 1 fila por ciclo.
//   - Prune automático al arrancar: ciclos > 30d.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alejandrodnm/polywatch/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key        TEXT PRIMARY KEY,
    value      BLOB     NOT NULL,
    updated_at DATETIME NOT NULL
);

-- Resumen ligero por ciclo de refresh
CREATE TABLE IF NOT EXISTS refresh_cycles (
    id          TEXT PRIMARY KEY,
    started_at  DATETIME NOT NULL,
    duration_ms INTEGER  NOT NULL DEFAULT 0,
    quick       INTEGER  NOT NULL DEFAULT 0,
    traders     INTEGER  NOT NULL DEFAULT 0,
    failed      INTEGER  NOT NULL DEFAULT 0,
    best_wallet TEXT,
    best_pnl    REAL     NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_cycles_started ON refresh_cycles(started_at DESC);
`

const retentionCycles = 30 * 24 * time.Hour

// SQLiteStorage implementa ports.KVStore y ports.CycleStore usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia ciclos antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db, now: time.Now}
	s.pruneOld(context.Background())
	return s, nil
}

// Get devuelve el valor de la clave; ok=false si no existe.
func (s *SQLiteStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage.Get %q: %w", key, err)
	}
	return value, true, nil
}

// Put hace upsert del valor.
func (s *SQLiteStorage) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, s.now().UTC()); err != nil {
		return fmt.Errorf("storage.Put %q: %w", key, err)
	}
	return nil
}

// SaveCycle persiste el resumen de un ciclo de refresh.
func (s *SQLiteStorage) SaveCycle(ctx context.Context, c domain.RefreshCycle) error {
	quick := 0
	if c.Quick {
		quick = 1
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_cycles
			(id, started_at, duration_ms, quick, traders, failed, best_wallet, best_pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID,
		c.StartedAt.UTC(),
		c.Duration.Milliseconds(),
		quick,
		c.Traders,
		c.Failed,
		c.BestWallet,
		c.BestPnL,
	); err != nil {
		return fmt.Errorf("storage.SaveCycle %s: %w", c.ID, err)
	}
	return nil
}

// RecentCycles devuelve los ciclos desde since, el más reciente primero.
func (s *SQLiteStorage) RecentCycles(ctx context.Context, since time.Time) ([]domain.RefreshCycle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, duration_ms, quick, traders, failed, best_wallet, best_pnl
		FROM refresh_cycles
		WHERE started_at >= ?
		ORDER BY started_at DESC
	`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("storage.RecentCycles: query: %w", err)
	}
	defer rows.Close()

	var cycles []domain.RefreshCycle
	for rows.Next() {
		var (
			c          domain.RefreshCycle
			durationMs int64
			quick      int
			bestWallet sql.NullString
		)
		if err := rows.Scan(
			&c.ID,
			&c.StartedAt,
			&durationMs,
			&quick,
			&c.Traders,
			&c.Failed,
			&bestWallet,
			&c.BestPnL,
		); err != nil {
			return nil, fmt.Errorf("storage.RecentCycles: scan row: %w", err)
		}
		c.Duration = time.Duration(durationMs) * time.Millisecond
		c.Quick = quick == 1
		c.BestWallet = bestWallet.String
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld elimina ciclos antiguos para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := s.now().UTC().Add(-retentionCycles)
	s.db.ExecContext(ctx, `DELETE FROM refresh_cycles WHERE started_at < ?`, cutoff)
}
