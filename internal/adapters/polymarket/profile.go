package polymarket

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
	"golang.org/x/net/html"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

const (
	nextDataID      = "__NEXT_DATA__"
	portfolioPnLKey = "portfolio-pnl"
	profilePagePath = "/profile/"
)

// ProfilePnL descarga la página de perfil y extrae las series de PnL embebidas
// en el blob __NEXT_DATA__ (queries de react-query con key "portfolio-pnl").
//
// No valida variación: una historia plana se devuelve tal cual y es el
// reconstructor quien decide si es un placeholder.
func (c *Client) ProfilePnL(ctx context.Context, wallet string) (domain.History, error) {
	page, err := c.getPage(ctx, c.siteBase+profilePagePath+domain.NormalizeWallet(wallet))
	if err != nil {
		return nil, fmt.Errorf("profile.ProfilePnL: %w", err)
	}

	h, err := parseProfilePnL(page)
	if err != nil {
		return nil, fmt.Errorf("profile.ProfilePnL: %w", err)
	}
	return h, nil
}

// parseProfilePnL extrae las series de una página ya descargada.
func parseProfilePnL(page []byte) (domain.History, error) {
	blob, ok := extractNextData(page)
	if !ok {
		return nil, fmt.Errorf("%w: %s blob not found", domain.ErrScrapeFormat, nextDataID)
	}

	var nd nextData
	if err := json.Unmarshal(blob, &nd); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrScrapeFormat, nextDataID, err)
	}

	h := domain.EmptyHistory()
	found := 0
	for _, q := range nd.Props.PageProps.DehydratedState.Queries {
		tf, ok := pnlQueryTimeframe(q.QueryKey)
		if !ok {
			continue
		}
		found++

		var points []rawPnLPoint
		if err := json.Unmarshal(q.State.Data, &points); err != nil || len(points) == 0 {
			slog.Debug("portfolio-pnl query without points", "timeframe", tf)
			continue
		}
		h[tf] = mapPnLPoints(points)
	}

	if found == 0 {
		return nil, fmt.Errorf("%w: no %s queries", domain.ErrScrapeFormat, portfolioPnLKey)
	}
	return h, nil
}

// pnlQueryTimeframe reconoce keys ["portfolio-pnl", user, wallet, timeframe]
// y el formato viejo ["portfolio-pnl", timeframe].
func pnlQueryTimeframe(key []any) (domain.Timeframe, bool) {
	if len(key) < 2 {
		return "", false
	}
	if name, _ := cast.ToStringE(key[0]); name != portfolioPnLKey {
		return "", false
	}
	raw := key[1]
	if len(key) > 3 {
		raw = key[3]
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", false
	}
	return domain.ParseTimeframe(s)
}

// extractNextData devuelve el contenido del <script id="__NEXT_DATA__">.
func extractNextData(page []byte) ([]byte, bool) {
	z := html.NewTokenizer(bytes.NewReader(page))
	inBlob := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return nil, false
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "script" {
				continue
			}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				if string(k) == "id" && string(v) == nextDataID {
					inBlob = true
				}
			}
		case html.TextToken:
			if inBlob {
				return bytes.Clone(z.Text()), true
			}
		case html.EndTagToken:
			inBlob = false
		}
	}
}
