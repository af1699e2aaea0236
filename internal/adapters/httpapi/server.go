// Package httpapi expone el backend del dashboard: proxies a la Data/Gamma API,
// historia de PnL reconstruida y refresh de la watchlist.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alejandrodnm/polywatch/internal/dashboard"
	"github.com/alejandrodnm/polywatch/internal/domain"
	"github.com/alejandrodnm/polywatch/internal/ports"
)

const shutdownTimeout = 5 * time.Second

// Proxy reenvía GETs crudos al upstream.
type Proxy interface {
	ProxyData(ctx context.Context, pathAndQuery string) ([]byte, error)
	ProxyGamma(ctx context.Context, pathAndQuery string) ([]byte, error)
}

// Dashboard es la parte del orquestador que usa el servidor.
type Dashboard interface {
	Refresh(ctx context.Context, entries []domain.WatchlistEntry, opts dashboard.RefreshOptions) ([]domain.TraderResult, error)
	Classify(ctx context.Context, entry domain.WatchlistEntry) (domain.TraderSummary, domain.Classification, error)
	Last() []domain.TraderResult
}

// Watchlist da acceso de lectura a la lista persistida.
type Watchlist interface {
	List() []domain.WatchlistEntry
}

// Deps agrupa las dependencias del servidor.
type Deps struct {
	Proxy     Proxy
	History   ports.HistoryProvider
	Dashboard Dashboard
	Watchlist Watchlist
}

// Server es el servidor HTTP del dashboard.
type Server struct {
	deps   Deps
	addr   string
	engine *gin.Engine
}

// New crea el servidor y registra las rutas.
func New(addr string, deps Deps) *Server {
	s := &Server{deps: deps, addr: addr, engine: gin.New()}
	s.engine.RedirectTrailingSlash = false
	s.engine.Use(gin.Recovery(), requestLogger(), cors())
	s.routes()
	return s
}

// Handler devuelve el http.Handler (tests).
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	g := s.engine
	g.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for _, prefix := range []string{"/api/gamma-api", "/gamma-api"} {
		g.GET(prefix+"/*path", s.gammaProxy)
	}
	g.GET("/api/pnl-history", s.pnlHistory)
	g.GET("/pnl-history", s.pnlHistory)
	g.GET("/api/traders", s.traders)
	g.GET("/api/traders/:wallet/strategy", s.strategy)
	g.GET("/api/proxy/*path", s.dataProxy)

	// Cualquier otro GET bajo /api/ va a la Data API.
	g.NoRoute(s.fallback)
}

// Run arranca el servidor y lo para limpiamente cuando se cancela ctx.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("httpapi.Run: listen %s: %w", s.addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpapi.Run: shutdown: %w", err)
	}
	slog.Info("http server stopped")
	return nil
}
