package domain

import "time"

// Timeframe es una de las cuatro ventanas fijas que muestra el dashboard.
type Timeframe string

const (
	Timeframe1D  Timeframe = "1D"
	Timeframe1W  Timeframe = "1W"
	Timeframe1M  Timeframe = "1M"
	TimeframeAll Timeframe = "ALL"
)

// Period es el nombre que usa el leaderboard para la misma ventana.
type Period string

const (
	PeriodDay   Period = "DAY"
	PeriodWeek  Period = "WEEK"
	PeriodMonth Period = "MONTH"
	PeriodAll   Period = "ALL"
)

// Timeframes devuelve las cuatro ventanas en orden de display.
func Timeframes() []Timeframe {
	return []Timeframe{Timeframe1D, Timeframe1W, Timeframe1M, TimeframeAll}
}

// Periods devuelve los periodos del leaderboard en el orden en que se piden.
func Periods() []Period {
	return []Period{PeriodAll, PeriodMonth, PeriodWeek, PeriodDay}
}

// ParseTimeframe acepta "1D", "1W", "1M" o "ALL".
func ParseTimeframe(s string) (Timeframe, bool) {
	switch tf := Timeframe(s); tf {
	case Timeframe1D, Timeframe1W, Timeframe1M, TimeframeAll:
		return tf, true
	}
	return "", false
}

// Period traduce la ventana del dashboard al periodo del leaderboard.
func (tf Timeframe) Period() Period {
	switch tf {
	case Timeframe1D:
		return PeriodDay
	case Timeframe1W:
		return PeriodWeek
	case Timeframe1M:
		return PeriodMonth
	default:
		return PeriodAll
	}
}

// Window es la duración por defecto de la ventana. ALL usa un lookback de 180 días.
func (tf Timeframe) Window() time.Duration {
	const day = 24 * time.Hour
	switch tf {
	case Timeframe1D:
		return day
	case Timeframe1W:
		return 7 * day
	case Timeframe1M:
		return 30 * day
	default:
		return 180 * day
	}
}

// Points es el número de puntos que genera el timeline sintético para la ventana.
func (tf Timeframe) Points() int {
	switch tf {
	case Timeframe1D:
		return 48
	case Timeframe1W:
		return 84
	case Timeframe1M:
		return 60
	default:
		return 100
	}
}

// PnLPoint es el PnL acumulado en un instante (epoch ms).
type PnLPoint struct {
	Timestamp int64   `json:"timestamp"`
	PnL       float64 `json:"pnl"`
}

// Series es una secuencia de puntos ordenada por timestamp no decreciente.
type Series []PnLPoint

// Change devuelve last - first, o 0 si la serie tiene menos de dos puntos.
func (s Series) Change() float64 {
	if len(s) < 2 {
		return 0
	}
	return s[len(s)-1].PnL - s[0].PnL
}

// Last devuelve el último punto y false si la serie está vacía.
func (s Series) Last() (PnLPoint, bool) {
	if len(s) == 0 {
		return PnLPoint{}, false
	}
	return s[len(s)-1], true
}

// Sorted indica si los timestamps son no decrecientes.
func (s Series) Sorted() bool {
	for i := 1; i < len(s); i++ {
		if s[i].Timestamp < s[i-1].Timestamp {
			return false
		}
	}
	return true
}

// History agrupa una serie por cada timeframe.
type History map[Timeframe]Series

// EmptyHistory es el peor caso del reconstructor: las cuatro claves presentes y vacías.
func EmptyHistory() History {
	h := make(History, 4)
	for _, tf := range Timeframes() {
		h[tf] = Series{}
	}
	return h
}

// HasVariation indica si la unión de valores de PnL de todas las series
// tiene al menos dos valores distintos. Una historia sin variación es un placeholder.
func (h History) HasVariation() bool {
	var (
		first PnLPoint
		seen  bool
	)
	for _, s := range h {
		for _, p := range s {
			if !seen {
				first, seen = p, true
				continue
			}
			if p.PnL != first.PnL {
				return true
			}
		}
	}
	return false
}

// Clone hace una copia profunda para que los consumidores no compartan slices con la caché.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	for tf, s := range h {
		cp := make(Series, len(s))
		copy(cp, s)
		out[tf] = cp
	}
	return out
}
