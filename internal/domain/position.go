package domain

// Position es la foto de una posición abierta para un (trader, mercado, outcome).
// Inmutable dentro de un ciclo de refresh; no se persiste.
type Position struct {
	ConditionID  string  `json:"conditionId"`
	Title        string  `json:"title"`
	Slug         string  `json:"slug,omitempty"`
	Outcome      string  `json:"outcome"`  // "Yes" | "No" | nombre del outcome
	Size         float64 `json:"size"`     // cantidad de shares
	AvgPrice     float64 `json:"avgPrice"` // 0..1
	CurPrice     float64 `json:"curPrice"`
	CurrentValue float64 `json:"currentValue"`
	InitialValue float64 `json:"initialValue"`
	CashPnl      float64 `json:"cashPnl"`
	RealizedPnl  float64 `json:"realizedPnl"`
	Redeemable   bool    `json:"redeemable"` // mercado resuelto
}
