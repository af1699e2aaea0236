package httpapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/polywatch/internal/adapters/httpapi"
	"github.com/alejandrodnm/polywatch/internal/dashboard"
	"github.com/alejandrodnm/polywatch/internal/domain"
)

// --- mocks ---

type mockProxy struct {
	dataPaths  []string
	gammaPaths []string
	body       []byte
	err        error
}

func (m *mockProxy) ProxyData(_ context.Context, p string) ([]byte, error) {
	m.dataPaths = append(m.dataPaths, p)
	return m.body, m.err
}

func (m *mockProxy) ProxyGamma(_ context.Context, p string) ([]byte, error) {
	m.gammaPaths = append(m.gammaPaths, p)
	return m.body, m.err
}

type mockHistory struct {
	wallets []string
}

func (m *mockHistory) Reconstruct(_ context.Context, wallet string) domain.History {
	m.wallets = append(m.wallets, wallet)
	h := domain.EmptyHistory()
	h[domain.Timeframe1D] = domain.Series{{Timestamp: 1000, PnL: 1}, {Timestamp: 2000, PnL: 3}}
	return h
}

type mockDashboard struct {
	opts     []dashboard.RefreshOptions
	last     []domain.TraderResult
	err      error
	entry    domain.WatchlistEntry
	classErr error
}

func (m *mockDashboard) Refresh(_ context.Context, entries []domain.WatchlistEntry, opts dashboard.RefreshOptions) ([]domain.TraderResult, error) {
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.TraderResult, len(entries))
	for i, e := range entries {
		out[i] = domain.TraderResult{Entry: e, Summary: domain.TraderSummary{Wallet: e.Wallet, Name: e.Name}}
	}
	m.last = out
	return out, nil
}

func (m *mockDashboard) Last() []domain.TraderResult { return m.last }

func (m *mockDashboard) Classify(_ context.Context, entry domain.WatchlistEntry) (domain.TraderSummary, domain.Classification, error) {
	m.entry = entry
	if m.classErr != nil {
		return domain.TraderSummary{}, domain.Classification{}, m.classErr
	}
	kinds := domain.StrategyKinds()
	second := kinds[1]
	return domain.TraderSummary{Wallet: entry.Wallet, Name: entry.Label()},
		domain.Classification{Primary: kinds[0], Secondary: &second, Confidence: 70, Scores: map[domain.StrategyKind]int{kinds[0]: 70}},
		nil
}

type mockWatchlist struct {
	entries []domain.WatchlistEntry
}

func (m *mockWatchlist) List() []domain.WatchlistEntry { return m.entries }

// --- helpers ---

type fixture struct {
	proxy   *mockProxy
	history *mockHistory
	dash    *mockDashboard
	handler http.Handler
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)
	f := &fixture{
		proxy:   &mockProxy{body: []byte(`[{"ok":true}]`)},
		history: &mockHistory{},
		dash:    &mockDashboard{},
	}
	srv := httpapi.New(":0", httpapi.Deps{
		Proxy:     f.proxy,
		History:   f.history,
		Dashboard: f.dash,
		Watchlist: &mockWatchlist{entries: []domain.WatchlistEntry{
			{Name: "kch123", Wallet: "0x6a72f61820b26b1fe4d956e17b6dc2a1ea3033ee"},
		}},
	})
	f.handler = srv.Handler()
	return f
}

func (f *fixture) do(method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

// --- tests ---

func TestOptionsReturnsNoContentWithCORS(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodOptions, "/api/proxy/positions")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Empty(t, f.proxy.dataPaths)
}

func TestDataProxy_ForwardsPathAndQuery(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/api/proxy/positions?user=0xabc&limit=10")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"ok":true}]`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, []string{"/positions?user=0xabc&limit=10"}, f.proxy.dataPaths)
}

func TestDataProxy_ApiFallback(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/leaderboard?timePeriod=ALL")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/proxy")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"/v1/leaderboard?timePeriod=ALL", "/"}, f.proxy.dataPaths)
}

func TestGammaProxy(t *testing.T) {
	f := newFixture()

	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/gamma-api/profiles?_q=gaba").Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/gamma-api/profiles?_q=kch").Code)

	assert.Equal(t, []string{"/profiles?_q=gaba", "/profiles?_q=kch"}, f.proxy.gammaPaths)
	assert.Empty(t, f.proxy.dataPaths)
}

func TestProxy_UpstreamFailure(t *testing.T) {
	f := newFixture()
	f.proxy.err = errors.New("upstream: status 503")

	rec := f.do(http.MethodGet, "/api/proxy/trades")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "upstream: status 503", decodeError(t, rec))
}

func TestProxy_InvalidJSON(t *testing.T) {
	f := newFixture()
	f.proxy.body = []byte(`<html>oops</html>`)

	rec := f.do(http.MethodGet, "/api/proxy/trades")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeError(t, rec), "failed to parse response")
}

func TestPnLHistory_MissingWallet(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/api/pnl-history")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing wallet parameter", decodeError(t, rec))
	assert.Empty(t, f.history.wallets)
}

func TestPnLHistory_ReturnsFourTimeframes(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/pnl-history?wallet=0xabc")
	require.Equal(t, http.StatusOK, rec.Code)

	var h map[string][]map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	assert.Len(t, h, 4)
	require.Len(t, h["1D"], 2)
	assert.Equal(t, 3.0, h["1D"][1]["pnl"])
	assert.Equal(t, 2000.0, h["1D"][1]["timestamp"])
	assert.Equal(t, []string{"0xabc"}, f.history.wallets)
}

func TestTraders_QuickAndManualFlags(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/traders")
	require.Equal(t, http.StatusOK, rec.Code)
	var results []domain.TraderResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "kch123", results[0].Summary.Name)

	rec = f.do(http.MethodGet, "/api/traders?quick=true&manual=true")
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, f.dash.opts, 2)
	assert.False(t, f.dash.opts[0].Quick)
	assert.True(t, f.dash.opts[1].Quick)
	assert.True(t, f.dash.opts[1].Manual)
	// los resultados previos los aporta el Orchestrator, no el handler
	assert.Nil(t, f.dash.opts[1].Existing)
}

func TestTraders_InProgressServesLastResults(t *testing.T) {
	f := newFixture()
	f.dash.last = []domain.TraderResult{{
		Entry:   domain.WatchlistEntry{Name: "background", Wallet: "0xbg"},
		Summary: domain.TraderSummary{Wallet: "0xbg", Name: "background"},
	}}
	f.dash.err = dashboard.ErrRefreshInProgress

	rec := f.do(http.MethodGet, "/api/traders?quick=true")
	require.Equal(t, http.StatusOK, rec.Code)
	var results []domain.TraderResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "background", results[0].Summary.Name)
}

func TestTraders_Errors(t *testing.T) {
	f := newFixture()

	f.dash.err = dashboard.ErrRefreshInProgress
	assert.Equal(t, http.StatusConflict, f.do(http.MethodGet, "/api/traders").Code)

	f.dash.err = dashboard.ErrUpstreamUnavailable
	rec := f.do(http.MethodGet, "/api/traders")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeError(t, rec), "upstream unavailable")
}

func TestStrategy_UsesWatchlistEntry(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/api/traders/0x6A72F61820B26B1FE4D956E17B6DC2A1EA3033EE/strategy")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "kch123", f.dash.entry.Name)

	var body struct {
		Name      string                 `json:"name"`
		Primary   struct{ Name string }  `json:"primary"`
		Secondary *struct{ Name string } `json:"secondary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "kch123", body.Name)
	assert.Equal(t, domain.StrategyKinds()[0].Info().Name, body.Primary.Name)
	require.NotNil(t, body.Secondary)
}

func TestStrategy_UnknownWalletAndFailure(t *testing.T) {
	f := newFixture()
	f.dash.classErr = errors.New("both positions and stats failed")

	rec := f.do(http.MethodGet, "/api/traders/0xdead/strategy")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "0xdead", f.dash.entry.Wallet)
	assert.Empty(t, f.dash.entry.Name)
}

func TestUnknownNonAPIPath(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/index.html")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, f.proxy.dataPaths)
}
