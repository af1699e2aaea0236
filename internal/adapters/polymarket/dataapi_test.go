package polymarket_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

func positionsPage(n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"title": "m%d", "cashPnl": 1}`, i)
	}
	return "[" + strings.Join(items, ",") + "]"
}

func TestPositions_DefaultQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/positions", r.URL.Path)
		assert.Equal(t, "0xabc", q.Get("user"))
		assert.Equal(t, "100", q.Get("limit"))
		assert.Equal(t, "0", q.Get("offset"))
		assert.Equal(t, "CURRENT", q.Get("sortBy"))
		assert.Equal(t, "DESC", q.Get("sortDirection"))
		assert.Equal(t, "0.01", q.Get("sizeThreshold"))
		assert.False(t, q.Has("market"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := newTestClient(srv, nil, nil)
	positions, err := client.Positions(context.Background(), "0xABC", domain.PositionQuery{})
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestAllPositions_PaginatesUntilShortPage(t *testing.T) {
	var offsets []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("offset")
		offsets = append(offsets, offset)
		if offset == "200" {
			w.Write([]byte(positionsPage(30)))
			return
		}
		w.Write([]byte(positionsPage(100)))
	}))
	defer srv.Close()

	client := newTestClient(srv, nil, nil)
	positions, err := client.AllPositions(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Len(t, positions, 230)
	assert.Equal(t, []string{"0", "100", "200"}, offsets)
}

func TestAllPositions_SafetyCap(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(positionsPage(100)))
	}))
	defer srv.Close()

	client := newTestClient(srv, nil, nil)
	positions, err := client.AllPositions(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Len(t, positions, 500)
	assert.Equal(t, 5, calls)
}

func TestRecentTrades_StopsAtMax(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		items := make([]string, 100)
		for i := range items {
			items[i] = fmt.Sprintf(`{"timestamp": %d}`, 1748736000-offset-i)
		}
		w.Write([]byte("[" + strings.Join(items, ",") + "]"))
	}))
	defer srv.Close()

	client := newTestClient(srv, nil, nil)
	trades, err := client.RecentTrades(context.Background(), "0xabc", 200)
	require.NoError(t, err)
	assert.Len(t, trades, 200)
}

func TestFirstTradeDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "500", q.Get("limit"))
		assert.Equal(t, "1600000000", q.Get("after"))
		w.Write([]byte(`[{"timestamp": 1700000300}, {"timestamp": 0}, {"timestamp": 1700000100}, {"timestamp": "1700000200"}]`))
	}))
	defer srv.Close()

	client := newTestClient(srv, nil, nil)
	first, err := client.FirstTradeDate(context.Background(), "0xabc")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, int64(1700000100), first.Unix())
}

func TestFirstTradeDate_NoTrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := newTestClient(srv, nil, nil)
	first, err := client.FirstTradeDate(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Nil(t, first)
}

func TestUserStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/v1/leaderboard", r.URL.Path)
		assert.Equal(t, "0xabc", q.Get("user"))
		switch q.Get("timePeriod") {
		case "ALL":
			w.Write([]byte(`[{"pnl": "1000", "vol": 50000, "rank": 12, "userName": "alice"}]`))
		case "DAY":
			w.Write([]byte(`[{"pnl": -20, "vol": 300}]`))
		default:
			w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	client := newTestClient(srv, nil, nil)
	ctx := context.Background()

	stats, err := client.UserStats(ctx, "0xABC")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, stats.TotalPnl)
	assert.Equal(t, 50000.0, stats.TotalVolume)
	assert.Equal(t, "alice", stats.UserName)
	require.NotNil(t, stats.Rank)
	assert.Equal(t, 12, *stats.Rank)

	day, err := client.PeriodPnL(ctx, "0xabc", domain.PeriodDay)
	require.NoError(t, err)
	assert.Equal(t, -20.0, day.PnL)
	assert.Nil(t, day.Rank)

	week, err := client.PeriodPnL(ctx, "0xabc", domain.PeriodWeek)
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodPnL{}, week)
}

func TestLeaderboard_Defaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "WEEK", q.Get("timePeriod"))
		assert.Equal(t, "OVERALL", q.Get("category"))
		assert.Equal(t, "PNL", q.Get("orderBy"))
		assert.Equal(t, "50", q.Get("limit"))
		assert.Equal(t, "0", q.Get("offset"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := newTestClient(srv, nil, nil)
	_, err := client.Leaderboard(context.Background(), domain.LeaderboardQuery{})
	require.NoError(t, err)
}

func TestPortfolioValue_ObjectOrArray(t *testing.T) {
	body := `{"user": "0xabc", "value": "321.5"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := newTestClient(srv, nil, nil)
	v, err := client.PortfolioValue(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, 321.5, v)

	body = `[{"user": "0xdef", "value": 7}]`
	v, err = client.PortfolioValue(context.Background(), "0xdef")
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
}

func TestActivity_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "TIMESTAMP", q.Get("sortBy"))
		assert.Equal(t, "100", q.Get("limit"))
		assert.Equal(t, "TRADE", q.Get("type"))
		w.Write([]byte(`[{"type": "TRADE", "title": "m", "usdcSize": "12.5", "timestamp": 1748736000}]`))
	}))
	defer srv.Close()

	client := newTestClient(srv, nil, nil)
	acts, err := client.Activity(context.Background(), "0xabc", domain.ActivityQuery{Limit: 100, Type: "TRADE"})
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, 12.5, acts[0].UsdcSize)
}

func TestSearchProfiles(t *testing.T) {
	var calls int
	gamma := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/profiles", r.URL.Path)
		assert.Equal(t, "kch", r.URL.Query().Get("_q"))
		assert.Equal(t, "50", r.URL.Query().Get("_limit"))
		w.Write([]byte(`[{"name": "kch123", "proxyWallet": "0x6a72"}]`))
	}))
	defer gamma.Close()

	client := newTestClient(nil, gamma, nil)

	profiles, err := client.SearchProfiles(context.Background(), " k ")
	require.NoError(t, err)
	assert.Empty(t, profiles)
	assert.Equal(t, 0, calls)

	profiles, err = client.SearchProfiles(context.Background(), "kch")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "0x6a72", profiles[0].Wallet)
}
