// Package watchlist mantiene la lista de traders seguidos, persistida como un
// array JSON bajo una única clave del almacén clave-valor.
package watchlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/alejandrodnm/polywatch/internal/domain"
	"github.com/alejandrodnm/polywatch/internal/ports"
)

// StorageKey es la clave bajo la que se guarda la watchlist.
const StorageKey = "polymarket_watchlist"

const (
	profileURLPrefix = "https://polymarket.com/@"
	unknownJoinDate  = "Unknown"
)

var (
	ErrDuplicate     = errors.New("watchlist: wallet already tracked")
	ErrNotFound      = errors.New("watchlist: wallet not tracked")
	ErrInvalidWallet = errors.New("watchlist: wallet is required")
)

// Service es seguro para uso concurrente. Cada cambio reescribe la lista entera.
type Service struct {
	store ports.KVStore
	newID func() string

	mu      sync.RWMutex
	entries []domain.WatchlistEntry
}

// New crea el servicio con la watchlist por defecto en memoria; llamar a Load
// para leer la persistida.
func New(store ports.KVStore) *Service {
	return &Service{
		store:   store,
		newID:   uuid.NewString,
		entries: Defaults(),
	}
}

// Load lee la watchlist del almacén. Si no hay nada guardado, o lo guardado no
// se puede leer, se queda la lista por defecto.
func (s *Service) Load(ctx context.Context) error {
	raw, ok, err := s.store.Get(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("watchlist.Load: %w", err)
	}
	if !ok {
		slog.Debug("no stored watchlist, using defaults", "traders", len(defaultTraders))
		return nil
	}

	var entries []domain.WatchlistEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		slog.Warn("stored watchlist unreadable, using defaults", "err", err)
		return nil
	}

	s.mu.Lock()
	s.entries = dedup(entries)
	s.mu.Unlock()
	return nil
}

// List devuelve una copia de la watchlist actual.
func (s *Service) List() []domain.WatchlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.WatchlistEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Add añade un trader. Deduplica por wallet sin distinguir mayúsculas.
func (s *Service) Add(ctx context.Context, e domain.WatchlistEntry) (domain.WatchlistEntry, error) {
	e.Wallet = strings.TrimSpace(e.Wallet)
	if e.Wallet == "" {
		return domain.WatchlistEntry{}, ErrInvalidWallet
	}
	e = s.withDefaults(e)

	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.entries, e.Wallet) >= 0 {
		return domain.WatchlistEntry{}, fmt.Errorf("%w: %s", ErrDuplicate, e.Wallet)
	}

	next := append(append([]domain.WatchlistEntry(nil), s.entries...), e)
	if err := s.save(ctx, next); err != nil {
		return domain.WatchlistEntry{}, err
	}
	s.entries = next
	return e, nil
}

// Remove quita el trader con ese wallet.
func (s *Service) Remove(ctx context.Context, wallet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.entries, wallet)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, wallet)
	}
	next := make([]domain.WatchlistEntry, 0, len(s.entries)-1)
	next = append(next, s.entries[:i]...)
	next = append(next, s.entries[i+1:]...)
	if err := s.save(ctx, next); err != nil {
		return err
	}
	s.entries = next
	return nil
}

// Replace sustituye la watchlist entera (import). Las entradas sin wallet se
// descartan y los duplicados se quedan con la primera aparición.
func (s *Service) Replace(ctx context.Context, entries []domain.WatchlistEntry) error {
	next := make([]domain.WatchlistEntry, 0, len(entries))
	for _, e := range entries {
		e.Wallet = strings.TrimSpace(e.Wallet)
		if e.Wallet == "" {
			continue
		}
		next = append(next, s.withDefaults(e))
	}
	next = dedup(next)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(ctx, next); err != nil {
		return err
	}
	s.entries = next
	return nil
}

// Export devuelve la watchlist como JSON indentado, con los campos opcionales rellenos.
func (s *Service) Export() ([]byte, error) {
	entries := s.List()
	for i, e := range entries {
		if e.ID == "" {
			entries[i].ID = e.Name
		}
		if e.DisplayName == "" {
			entries[i].DisplayName = e.Name
		}
		if e.ProfileURL == "" {
			entries[i].ProfileURL = profileURLPrefix + e.Name
		}
		if e.JoinDate == "" {
			entries[i].JoinDate = unknownJoinDate
		}
	}
	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("watchlist.Export: %w", err)
	}
	return out, nil
}

func (s *Service) save(ctx context.Context, entries []domain.WatchlistEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("watchlist.save: marshal: %w", err)
	}
	if err := s.store.Put(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("watchlist.save: %w", err)
	}
	return nil
}

// withDefaults: id → name, o un UUID si tampoco hay nombre; profileUrl → /@name.
func (s *Service) withDefaults(e domain.WatchlistEntry) domain.WatchlistEntry {
	if e.ID == "" {
		e.ID = e.Name
		if e.ID == "" {
			e.ID = s.newID()
		}
	}
	if e.ProfileURL == "" && e.Name != "" {
		e.ProfileURL = profileURLPrefix + e.Name
	}
	return e
}

func indexOf(entries []domain.WatchlistEntry, wallet string) int {
	key := domain.NormalizeWallet(wallet)
	for i, e := range entries {
		if e.WalletKey() == key {
			return i
		}
	}
	return -1
}

func dedup(entries []domain.WatchlistEntry) []domain.WatchlistEntry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]domain.WatchlistEntry, 0, len(entries))
	for _, e := range entries {
		k := e.WalletKey()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}
