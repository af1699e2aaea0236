package polymarket

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/alejandrodnm/polywatch/internal/domain"
	"github.com/alejandrodnm/polywatch/internal/ttlcache"
)

const (
	defaultDataBase  = "https://data-api.polymarket.com"
	defaultGammaBase = "https://gamma-api.polymarket.com"
	defaultSiteBase  = "https://polymarket.com"

	// Rate limits conservadores: la Data API y Gamma no publican límites por endpoint.
	dataRatePerSec  = 50
	gammaRatePerSec = 18
	// La página de perfil es HTML pesado; se pide poco y de uno en uno.
	pageRatePerSec = 4

	defaultCacheTTL = 30 * time.Second
	maxRetries      = 3
	// DefaultRetryWait es la espera base del backoff exponencial.
	DefaultRetryWait = 500 * time.Millisecond

	userAgent        = "polywatch/1.0"
	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

// Client es el HTTP client de Polymarket con rate limiting, retries y caché de respuestas.
// La caché es por instancia: clave = URL completa, valor = body crudo.
type Client struct {
	http      *http.Client
	dataBase  string
	gammaBase string
	siteBase  string

	dataLimiter  *rate.Limiter
	gammaLimiter *rate.Limiter
	pageLimiter  *rate.Limiter

	cache     *ttlcache.Cache[string, []byte]
	cacheTTL  time.Duration
	retries   int
	retryWait time.Duration
}

// Option configura el Client.
type Option func(*Client)

// WithHTTPClient sustituye el http.Client (timeout de 10s por defecto).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithCacheTTL cambia el TTL de la caché de respuestas. 0 la desactiva.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cacheTTL = ttl }
}

// WithRetries ajusta el número de reintentos y la espera base del backoff.
func WithRetries(n int, wait time.Duration) Option {
	return func(c *Client) {
		c.retries = n
		c.retryWait = wait
	}
}

// NewClient crea un Client con los base URLs dados.
// Si alguno está vacío, usa el URL de producción.
func NewClient(dataBase, gammaBase, siteBase string, opts ...Option) *Client {
	if dataBase == "" {
		dataBase = defaultDataBase
	}
	if gammaBase == "" {
		gammaBase = defaultGammaBase
	}
	if siteBase == "" {
		siteBase = defaultSiteBase
	}
	c := &Client{
		http:         &http.Client{Timeout: 10 * time.Second},
		dataBase:     dataBase,
		gammaBase:    gammaBase,
		siteBase:     siteBase,
		dataLimiter:  rate.NewLimiter(dataRatePerSec, 20),
		gammaLimiter: rate.NewLimiter(gammaRatePerSec, 10),
		pageLimiter:  rate.NewLimiter(pageRatePerSec, 2),
		cacheTTL:     defaultCacheTTL,
		retries:      maxRetries,
		retryWait:    DefaultRetryWait,
	}
	for _, o := range opts {
		o(c)
	}
	c.cache = ttlcache.New[string, []byte](c.cacheTTL)
	return c
}

// ClearCache vacía la caché de respuestas entera.
func (c *Client) ClearCache() {
	c.cache.Clear()
	slog.Debug("upstream response cache cleared")
}

// get hace un GET JSON cacheado y decodifica el body en out.
func (c *Client) get(ctx context.Context, limiter *rate.Limiter, url string, out any) error {
	body, err := c.getRaw(ctx, limiter, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.cache.Delete(url)
		return fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}
	return nil
}

// getValidJSON es getRaw para bodies que se reenvían tal cual: si no son JSON
// válido se sacan de la caché y se devuelve ErrDecode.
func (c *Client) getValidJSON(ctx context.Context, limiter *rate.Limiter, url string) ([]byte, error) {
	body, err := c.getRaw(ctx, limiter, url)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		c.cache.Delete(url)
		return nil, fmt.Errorf("%w: invalid JSON body", domain.ErrDecode)
	}
	return body, nil
}

// getRaw devuelve el body crudo, desde la caché si está fresco.
func (c *Client) getRaw(ctx context.Context, limiter *rate.Limiter, url string) ([]byte, error) {
	if body, ok := c.cache.Get(url); ok {
		return body, nil
	}

	body, err := c.doWithRetry(ctx, limiter, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)
		return c.http.Do(req)
	})
	if err != nil {
		return nil, err
	}

	c.cache.Set(url, body)
	return body, nil
}

// getPage descarga HTML sin pasar por la caché de respuestas.
func (c *Client) getPage(ctx context.Context, url string) ([]byte, error) {
	return c.doWithRetry(ctx, c.pageLimiter, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		req.Header.Set("User-Agent", browserUserAgent)
		return c.http.Do(req)
	})
}

// doWithRetry ejecuta la función con backoff exponencial.
// Reintenta errores de red, 429 y 5xx; un 4xx falla inmediatamente.
func (c *Client) doWithRetry(ctx context.Context, limiter *rate.Limiter, fn func() (*http.Response, error)) ([]byte, error) {
	for attempt := 0; attempt <= c.retries; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %w", domain.ErrTransport, err)
		}

		resp, err := fn()
		if err != nil {
			if attempt == c.retries || ctx.Err() != nil {
				return nil, fmt.Errorf("%w: request failed after %d retries: %w", domain.ErrTransport, attempt, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == c.retries {
				return nil, fmt.Errorf("%w: status %d after %d retries", domain.ErrTransport, resp.StatusCode, attempt)
			}
			slog.Warn("upstream retryable status", "status", resp.StatusCode, "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return nil, fmt.Errorf("%w: client error %d: %s", domain.ErrTransport, resp.StatusCode, string(body))
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %w", domain.ErrTransport, err)
		}
		return body, nil
	}
	return nil, fmt.Errorf("%w: exhausted %d retries", domain.ErrTransport, c.retries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * c.retryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
