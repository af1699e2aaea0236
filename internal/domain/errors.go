package domain

import "errors"

// Taxonomía de fallos del lado upstream. Los adapters envuelven con %w
// y los componentes que consumen los convierten en defaults o en el siguiente fallback.
var (
	// ErrTransport: red, DNS o respuesta no-2xx.
	ErrTransport = errors.New("upstream transport failure")
	// ErrDecode: el payload no es JSON válido con la forma esperada.
	ErrDecode = errors.New("upstream decode failure")
	// ErrScrapeFormat: falta el blob embebido o no tiene el esquema esperado.
	ErrScrapeFormat = errors.New("profile scrape format failure")
	// ErrDegenerate: el blob existe pero es una línea plana.
	ErrDegenerate = errors.New("degenerate pnl history")
)
