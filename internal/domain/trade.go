package domain

import "time"

// Trade representa un fill de un trader devuelto por la Data API.
// Solo se usa para derivar puntos de anclaje al reconstruir el PnL; nunca se persiste.
type Trade struct {
	ConditionID string
	Title       string
	Outcome     string
	Side        string // "BUY" o "SELL"
	Price       float64
	Size        float64
	RealizedPnl float64
	Timestamp   time.Time // precisión de segundos (epoch seconds en la API)
}

// Activity es un evento del feed /activity (TRADE, SPLIT, MERGE, REDEEM, REWARD...).
type Activity struct {
	Type            string    `json:"type"`
	Title           string    `json:"title"`
	Outcome         string    `json:"outcome,omitempty"`
	Side            string    `json:"side,omitempty"`
	Price           float64   `json:"price"`
	Size            float64   `json:"size"`
	UsdcSize        float64   `json:"usdcSize"`
	TransactionHash string    `json:"transactionHash,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}
