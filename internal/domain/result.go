package domain

import "time"

// TraderResult es la salida del orquestador para una entrada de la watchlist.
type TraderResult struct {
	Entry       WatchlistEntry  `json:"entry"`
	Summary     TraderSummary   `json:"summary"`
	Strategy    *Classification `json:"strategy,omitempty"`
	Err         string          `json:"error,omitempty"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// Failed indica que el fetch del trader falló y el resumen está degradado.
func (r TraderResult) Failed() bool {
	return r.Err != ""
}

// ProgressEvent se emite cada vez que termina un trader, en orden de finalización.
type ProgressEvent struct {
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Name      string `json:"name"`
	Wallet    string `json:"wallet"`
}
