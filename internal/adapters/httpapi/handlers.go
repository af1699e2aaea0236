package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/alejandrodnm/polywatch/internal/dashboard"
	"github.com/alejandrodnm/polywatch/internal/domain"
)

var errInvalidUpstreamJSON = errors.New("failed to parse response: invalid JSON")

// upstreamPath reconstruye path + query del upstream a partir del request.
func upstreamPath(c *gin.Context, path string) string {
	if path == "" {
		path = "/"
	}
	if q := c.Request.URL.RawQuery; q != "" {
		return path + "?" + q
	}
	return path
}

func (s *Server) dataProxy(c *gin.Context) {
	s.proxy(c, false, c.Param("path"))
}

func (s *Server) gammaProxy(c *gin.Context) {
	s.proxy(c, true, c.Param("path"))
}

func (s *Server) proxy(c *gin.Context, gamma bool, path string) {
	target := upstreamPath(c, path)

	var (
		body []byte
		err  error
	)
	if gamma {
		body, err = s.deps.Proxy.ProxyGamma(c.Request.Context(), target)
	} else {
		body, err = s.deps.Proxy.ProxyData(c.Request.Context(), target)
	}
	if err == nil && !json.Valid(body) {
		err = errInvalidUpstreamJSON
	}
	if err != nil {
		slog.Warn("proxy request failed", "gamma", gamma, "path", target, "err", err)
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// fallback: los GET bajo /api/ que no casan con ninguna ruta van a la Data API.
func (s *Server) fallback(c *gin.Context) {
	path := c.Request.URL.Path
	if c.Request.Method != http.MethodGet || !strings.HasPrefix(path, "/api") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	path = strings.TrimPrefix(path, "/api/proxy")
	path = strings.TrimPrefix(path, "/api")
	s.proxy(c, false, path)
}

func (s *Server) pnlHistory(c *gin.Context) {
	wallet := strings.TrimSpace(c.Query("wallet"))
	if wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing wallet parameter"})
		return
	}
	c.JSON(http.StatusOK, s.deps.History.Reconstruct(c.Request.Context(), wallet))
}

// traders refresca la watchlist. quick=true hace un refresh rápido apoyado en el
// resultado anterior; manual=true vacía antes la caché de respuestas.
func (s *Server) traders(c *gin.Context) {
	quick, _ := strconv.ParseBool(c.DefaultQuery("quick", "false"))
	manual, _ := strconv.ParseBool(c.DefaultQuery("manual", "false"))

	// Existing queda a nil: el Orchestrator usa los resultados de su último
	// ciclo, incluidos los del refresh en background.
	results, err := s.deps.Dashboard.Refresh(c.Request.Context(), s.deps.Watchlist.List(), dashboard.RefreshOptions{
		Quick:  quick,
		Manual: manual,
	})
	switch {
	case errors.Is(err, dashboard.ErrRefreshInProgress):
		if last := s.deps.Dashboard.Last(); last != nil {
			slog.Debug("refresh in progress, serving last results", "traders", len(last))
			c.JSON(http.StatusOK, last)
			return
		}
		writeError(c, http.StatusConflict, err)
		return
	case err != nil:
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

type strategyResponse struct {
	Wallet         string                `json:"wallet"`
	Name           string                `json:"name"`
	Classification domain.Classification `json:"classification"`
	Primary        domain.StrategyInfo   `json:"primary"`
	Secondary      *domain.StrategyInfo  `json:"secondary,omitempty"`
}

func (s *Server) strategy(c *gin.Context) {
	wallet := c.Param("wallet")
	entry := domain.WatchlistEntry{Wallet: wallet}
	for _, e := range s.deps.Watchlist.List() {
		if e.WalletKey() == domain.NormalizeWallet(wallet) {
			entry = e
			break
		}
	}

	summary, cl, err := s.deps.Dashboard.Classify(c.Request.Context(), entry)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}

	resp := strategyResponse{
		Wallet:         summary.Wallet,
		Name:           summary.Name,
		Classification: cl,
		Primary:        cl.Primary.Info(),
	}
	if cl.Secondary != nil {
		info := cl.Secondary.Info()
		resp.Secondary = &info
	}
	c.JSON(http.StatusOK, resp)
}

func writeError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
