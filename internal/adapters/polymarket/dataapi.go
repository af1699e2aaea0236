package polymarket

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

const (
	positionsPerPage = 100
	maxPositions     = 500
	tradesPerPage    = 100

	// firstTradeLookback es un timestamp anterior a la existencia de Polymarket (sept 2020).
	firstTradeLookback = 1600000000
	firstTradeLimit    = 500
)

// Positions obtiene una página de posiciones abiertas.
func (c *Client) Positions(ctx context.Context, wallet string, q domain.PositionQuery) ([]domain.Position, error) {
	q = q.WithDefaults()
	params := url.Values{}
	params.Set("user", domain.NormalizeWallet(wallet))
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("offset", strconv.Itoa(q.Offset))
	params.Set("sortBy", q.SortBy)
	params.Set("sortDirection", q.SortDirection)
	params.Set("sizeThreshold", strconv.FormatFloat(q.SizeThreshold, 'f', -1, 64))
	if q.Market != "" {
		params.Set("market", q.Market)
	}

	var raw []rawPosition
	if err := c.get(ctx, c.dataLimiter, c.dataURL("/positions", params), &raw); err != nil {
		return nil, fmt.Errorf("dataapi.Positions: %w", err)
	}
	return mapPositions(raw), nil
}

// AllPositions pagina de 100 en 100 hasta una página corta o el tope de 500.
func (c *Client) AllPositions(ctx context.Context, wallet string) ([]domain.Position, error) {
	var all []domain.Position
	for offset := 0; ; offset += positionsPerPage {
		page, err := c.Positions(ctx, wallet, domain.PositionQuery{Limit: positionsPerPage, Offset: offset})
		if err != nil {
			if len(all) > 0 {
				return all, nil
			}
			return nil, fmt.Errorf("dataapi.AllPositions: %w", err)
		}
		all = append(all, page...)
		if len(page) < positionsPerPage || len(all) >= maxPositions {
			break
		}
	}
	if all == nil {
		all = []domain.Position{}
	}
	return all, nil
}

// PortfolioValue devuelve el valor actual del portfolio, 0 si la API no lo trae.
func (c *Client) PortfolioValue(ctx context.Context, wallet string) (float64, error) {
	params := url.Values{}
	params.Set("user", domain.NormalizeWallet(wallet))

	body, err := c.getRaw(ctx, c.dataLimiter, c.dataURL("/value", params))
	if err != nil {
		return 0, fmt.Errorf("dataapi.PortfolioValue: %w", err)
	}

	trimmed := bytes.TrimSpace(body)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var arr []rawValue
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return 0, fmt.Errorf("dataapi.PortfolioValue: %w: %w", domain.ErrDecode, err)
		}
		if len(arr) == 0 {
			return 0, nil
		}
		return float64(arr[0].Value), nil
	}

	var v rawValue
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return 0, fmt.Errorf("dataapi.PortfolioValue: %w: %w", domain.ErrDecode, err)
	}
	return float64(v.Value), nil
}

// Activity obtiene el feed de actividad ordenado por timestamp.
func (c *Client) Activity(ctx context.Context, wallet string, q domain.ActivityQuery) ([]domain.Activity, error) {
	q = q.WithDefaults()
	params := url.Values{}
	params.Set("user", domain.NormalizeWallet(wallet))
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("offset", strconv.Itoa(q.Offset))
	params.Set("sortBy", "TIMESTAMP")
	if q.Type != "" {
		params.Set("type", q.Type)
	}

	var raw []rawActivity
	if err := c.get(ctx, c.dataLimiter, c.dataURL("/activity", params), &raw); err != nil {
		return nil, fmt.Errorf("dataapi.Activity: %w", err)
	}
	return mapActivity(raw), nil
}

// Trades obtiene una página de trades del wallet.
func (c *Client) Trades(ctx context.Context, wallet string, q domain.TradeQuery) ([]domain.Trade, error) {
	q = q.WithDefaults()
	params := url.Values{}
	params.Set("user", domain.NormalizeWallet(wallet))
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("offset", strconv.Itoa(q.Offset))
	if q.After > 0 {
		params.Set("after", strconv.FormatInt(q.After, 10))
	}
	if q.Side != "" {
		params.Set("side", strings.ToUpper(q.Side))
	}

	var raw []rawTrade
	if err := c.get(ctx, c.dataLimiter, c.dataURL("/trades", params), &raw); err != nil {
		return nil, fmt.Errorf("dataapi.Trades: %w", err)
	}
	return mapTrades(raw), nil
}

// RecentTrades pagina de 100 en 100 hasta max trades o una página corta.
// Un fallo a mitad de paginación devuelve lo acumulado.
func (c *Client) RecentTrades(ctx context.Context, wallet string, max int) ([]domain.Trade, error) {
	var all []domain.Trade
	for offset := 0; len(all) < max; offset += tradesPerPage {
		page, err := c.Trades(ctx, wallet, domain.TradeQuery{Limit: tradesPerPage, Offset: offset})
		if err != nil {
			if len(all) > 0 {
				break
			}
			return nil, fmt.Errorf("dataapi.RecentTrades: %w", err)
		}
		all = append(all, page...)
		if len(page) < tradesPerPage {
			break
		}
	}
	if len(all) > max {
		all = all[:max]
	}
	return all, nil
}

// FirstTradeDate busca el trade más antiguo en una ventana amplia.
// Devuelve nil si no hay trades con timestamp válido.
func (c *Client) FirstTradeDate(ctx context.Context, wallet string) (*time.Time, error) {
	trades, err := c.Trades(ctx, wallet, domain.TradeQuery{Limit: firstTradeLimit, After: firstTradeLookback})
	if err != nil {
		return nil, fmt.Errorf("dataapi.FirstTradeDate: %w", err)
	}

	var first *time.Time
	for _, t := range trades {
		if t.Timestamp.IsZero() {
			continue
		}
		if first == nil || t.Timestamp.Before(*first) {
			ts := t.Timestamp
			first = &ts
		}
	}
	return first, nil
}

// UserStats lee la fila ALL del leaderboard del wallet.
// Un wallet fuera del leaderboard devuelve stats a cero sin error.
func (c *Client) UserStats(ctx context.Context, wallet string) (domain.UserStats, error) {
	row, ok, err := c.userLeaderboardRow(ctx, wallet, domain.PeriodAll)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("dataapi.UserStats: %w", err)
	}
	if !ok {
		return domain.UserStats{}, nil
	}
	return domain.UserStats{
		TotalPnl:    row.PnL,
		TotalVolume: row.Volume,
		Rank:        row.Rank,
		UserName:    row.UserName,
	}, nil
}

// PeriodPnL lee el delta de PnL del wallet en un periodo.
func (c *Client) PeriodPnL(ctx context.Context, wallet string, period domain.Period) (domain.PeriodPnL, error) {
	row, ok, err := c.userLeaderboardRow(ctx, wallet, period)
	if err != nil {
		return domain.PeriodPnL{}, fmt.Errorf("dataapi.PeriodPnL(%s): %w", period, err)
	}
	if !ok {
		return domain.PeriodPnL{}, nil
	}
	return domain.PeriodPnL{PnL: row.PnL, Volume: row.Volume, Rank: row.Rank}, nil
}

func (c *Client) userLeaderboardRow(ctx context.Context, wallet string, period domain.Period) (domain.LeaderboardRow, bool, error) {
	params := url.Values{}
	params.Set("user", domain.NormalizeWallet(wallet))
	params.Set("timePeriod", string(period))

	var raw []rawLeaderboardRow
	if err := c.get(ctx, c.dataLimiter, c.dataURL("/v1/leaderboard", params), &raw); err != nil {
		return domain.LeaderboardRow{}, false, err
	}
	if len(raw) == 0 {
		return domain.LeaderboardRow{}, false, nil
	}
	return mapLeaderboardRow(raw[0]), true, nil
}

// Leaderboard lista el leaderboard global.
func (c *Client) Leaderboard(ctx context.Context, q domain.LeaderboardQuery) ([]domain.LeaderboardRow, error) {
	q = q.WithDefaults()
	params := url.Values{}
	params.Set("timePeriod", string(q.TimePeriod))
	params.Set("category", q.Category)
	params.Set("orderBy", q.OrderBy)
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("offset", strconv.Itoa(q.Offset))

	var raw []rawLeaderboardRow
	if err := c.get(ctx, c.dataLimiter, c.dataURL("/v1/leaderboard", params), &raw); err != nil {
		return nil, fmt.Errorf("dataapi.Leaderboard: %w", err)
	}

	rows := make([]domain.LeaderboardRow, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, mapLeaderboardRow(r))
	}
	return rows, nil
}

// ProxyData reenvía un GET a la Data API (path + query crudos) y devuelve el body cacheado.
func (c *Client) ProxyData(ctx context.Context, pathAndQuery string) ([]byte, error) {
	body, err := c.getValidJSON(ctx, c.dataLimiter, c.dataBase+ensureSlash(pathAndQuery))
	if err != nil {
		return nil, fmt.Errorf("dataapi.ProxyData: %w", err)
	}
	return body, nil
}

func (c *Client) dataURL(path string, params url.Values) string {
	return c.dataBase + path + "?" + params.Encode()
}

func ensureSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
