package polymarket

import (
	"math"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// DTOs raw de la Data API, Gamma y la página de perfil. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// num es un número que la API puede mandar como número JSON, string numérico, null o nada.
// Cualquier cosa no numérica (o no finita) se normaliza a 0 aquí y en ningún otro sitio.
type num float64

func (n *num) UnmarshalJSON(b []byte) error {
	*n = 0
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*n = num(f)
	return nil
}

// flag es un booleano que puede llegar como bool, "true"/"false" o 0/1.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	*f = false
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	if parsed, err := cast.ToBoolE(v); err == nil {
		*f = flag(parsed)
	}
	return nil
}

// --- Data API ---

// rawPosition es un item de GET /positions.
type rawPosition struct {
	ProxyWallet  string `json:"proxyWallet"`
	ConditionID  string `json:"conditionId"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Outcome      string `json:"outcome"`
	Size         num    `json:"size"`
	AvgPrice     num    `json:"avgPrice"`
	CurPrice     num    `json:"curPrice"`
	CurrentValue num    `json:"currentValue"`
	InitialValue num    `json:"initialValue"`
	CashPnl      num    `json:"cashPnl"`
	RealizedPnl  num    `json:"realizedPnl"`
	Redeemable   flag   `json:"redeemable"`
}

// rawTrade es un item de GET /trades.
type rawTrade struct {
	ConditionID string `json:"conditionId"`
	Title       string `json:"title"`
	Outcome     string `json:"outcome"`
	Side        string `json:"side"`
	Price       num    `json:"price"`
	Size        num    `json:"size"`
	RealizedPnl num    `json:"realizedPnl"`
	Timestamp   num    `json:"timestamp"` // epoch seconds
}

// rawActivity es un item de GET /activity.
type rawActivity struct {
	Type            string `json:"type"`
	Title           string `json:"title"`
	Outcome         string `json:"outcome"`
	Side            string `json:"side"`
	Price           num    `json:"price"`
	Size            num    `json:"size"`
	UsdcSize        num    `json:"usdcSize"`
	TransactionHash string `json:"transactionHash"`
	Timestamp       num    `json:"timestamp"`
}

// rawValue es la respuesta de GET /value. Según la versión llega como objeto o como array de uno.
type rawValue struct {
	User  string `json:"user"`
	Value num    `json:"value"`
}

// rawLeaderboardRow es un item de GET /v1/leaderboard.
type rawLeaderboardRow struct {
	ProxyWallet  string `json:"proxyWallet"`
	User         string `json:"user"`
	UserName     string `json:"userName"`
	Pnl          num    `json:"pnl"`
	Vol          num    `json:"vol"`
	Rank         *num   `json:"rank"`
	ProfileImage string `json:"profileImage"`
}

// --- Gamma API ---

// rawProfile es un item de GET /profiles.
type rawProfile struct {
	Name         string `json:"name"`
	Pseudonym    string `json:"pseudonym"`
	ProxyWallet  string `json:"proxyWallet"`
	ProfileImage string `json:"profileImage"`
}

// --- Página de perfil ---

// nextData es la parte del blob __NEXT_DATA__ que nos interesa.
type nextData struct {
	Props struct {
		PageProps struct {
			DehydratedState struct {
				Queries []dehydratedQuery `json:"queries"`
			} `json:"dehydratedState"`
		} `json:"pageProps"`
	} `json:"props"`
}

// dehydratedQuery es una query de react-query serializada en la página.
// queryKey mezcla strings y otros tipos; data depende de la query.
type dehydratedQuery struct {
	QueryKey []any `json:"queryKey"`
	State    struct {
		Data json.RawMessage `json:"data"`
	} `json:"state"`
}

// rawPnLPoint es un punto de la query portfolio-pnl: t en segundos, p en dólares.
type rawPnLPoint struct {
	T num `json:"t"`
	P num `json:"p"`
}
