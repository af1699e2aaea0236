package polymarket

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

const (
	gammaProfilesPath = "/profiles"
	profileSearchMax  = 50
	minSearchLen      = 2
)

// SearchProfiles busca perfiles por nombre. Consultas de menos de 2 caracteres devuelven vacío.
func (c *Client) SearchProfiles(ctx context.Context, query string) ([]domain.Profile, error) {
	q := strings.TrimSpace(query)
	if len(q) < minSearchLen {
		return []domain.Profile{}, nil
	}

	params := url.Values{}
	params.Set("_q", q)
	params.Set("_limit", strconv.Itoa(profileSearchMax))

	var raw []rawProfile
	if err := c.get(ctx, c.gammaLimiter, c.gammaBase+gammaProfilesPath+"?"+params.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("gamma.SearchProfiles: %w", err)
	}
	return mapProfiles(raw), nil
}

// ProxyGamma reenvía un GET a la Gamma API y devuelve el body cacheado.
func (c *Client) ProxyGamma(ctx context.Context, pathAndQuery string) ([]byte, error) {
	body, err := c.getValidJSON(ctx, c.gammaLimiter, c.gammaBase+ensureSlash(pathAndQuery))
	if err != nil {
		return nil, fmt.Errorf("gamma.ProxyGamma: %w", err)
	}
	return body, nil
}
