package domain

import "time"

// RefreshCycle es el resumen persistido de un ciclo de refresh.
type RefreshCycle struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
	Quick     bool          `json:"quick"`
	Traders   int           `json:"traders"`
	Failed    int           `json:"failed"`
	// BestWallet / BestPnL: el trader con mayor PnL total del ciclo.
	BestWallet string  `json:"bestWallet,omitempty"`
	BestPnL    float64 `json:"bestPnl"`
}

// SummarizeCycle calcula conteos y mejor trader de un ciclo.
func SummarizeCycle(id string, started time.Time, d time.Duration, quick bool, results []TraderResult) RefreshCycle {
	c := RefreshCycle{ID: id, StartedAt: started, Duration: d, Quick: quick, Traders: len(results)}
	for _, r := range results {
		if r.Failed() {
			c.Failed++
			continue
		}
		if c.BestWallet == "" || r.Summary.TotalPnl > c.BestPnL {
			c.BestWallet = r.Summary.Wallet
			c.BestPnL = r.Summary.TotalPnl
		}
	}
	return c
}
