// Package ttlcache es una caché en memoria con expiración fija por entrada.
// Last-writer-wins: el mutex solo protege el map, no deduplica fetches concurrentes.
package ttlcache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// Cache guarda valores durante ttl desde que se escribieron.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[K]entry[V]
}

// Option configura la caché.
type Option[K comparable, V any] func(*Cache[K, V])

// WithClock sustituye time.Now (tests).
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *Cache[K, V]) { c.now = now }
}

// New crea una caché vacía. ttl <= 0 desactiva la caché (Get siempre falla).
func New[K comparable, V any](ttl time.Duration, opts ...Option[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[K]entry[V]),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get devuelve el valor si existe y no ha expirado.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Set escribe (o sobreescribe) el valor con marca de tiempo actual.
func (c *Cache[K, V]) Set(key K, value V) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, fetchedAt: c.now()}
	c.mu.Unlock()
}

// Delete elimina una entrada.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear vacía la caché entera.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}

// Len devuelve el número de entradas, incluidas las expiradas que aún no se han leído.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
