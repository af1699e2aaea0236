package domain

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"sort"
	"time"
)

const (
	// jitterFraction es la amplitud total del ruido relativa al swing de la ventana (±2%).
	jitterFraction = 0.04
	// pinTolerance: si el último trade está a menos de esto del final, se sobreescribe en vez de añadir.
	pinTolerance = 60 * time.Second
)

// NewJitterSource devuelve un PRNG reproducible por wallet + timeframe.
// Misma entrada → misma secuencia, lo que hace las series sintéticas testeables.
func NewJitterSource(wallet string, tf Timeframe) *rand.Rand {
	hw := fnv.New64a()
	_, _ = hw.Write([]byte(wallet))
	ht := fnv.New64a()
	_, _ = ht.Write([]byte(tf))
	return rand.New(rand.NewPCG(hw.Sum64(), hw.Sum64()^ht.Sum64()))
}

// BuildTimeline genera una serie entre start y end que termina exactamente en endPnl.
//
// Sin trades dentro de la ventana (o con menos de 3 puntos pedidos) emite `points`
// puntos equiespaciados con interpolación lineal. Con trades, emite el punto inicial,
// un punto por trade con interpolación por fracción de tiempo más jitter acotado,
// y un punto final fijado a endPnl.
//
// rng puede ser nil: en ese caso no se aplica jitter.
func BuildTimeline(start, end time.Time, startPnl, endPnl float64, points int, trades []Trade, rng *rand.Rand) Series {
	startMs, endMs := start.UnixMilli(), end.UnixMilli()
	duration := endMs - startMs
	if duration <= 0 || points < 2 {
		return Series{{Timestamp: endMs, PnL: endPnl}}
	}

	inWindow := tradesBetween(trades, startMs, endMs)
	swing := endPnl - startPnl

	if len(inWindow) == 0 || points < 3 {
		out := make(Series, points)
		step := float64(duration) / float64(points-1)
		for i := 0; i < points; i++ {
			progress := float64(i) / float64(points-1)
			out[i] = PnLPoint{
				Timestamp: startMs + int64(math.Round(step*float64(i))),
				PnL:       startPnl + swing*progress,
			}
		}
		out[points-1] = PnLPoint{Timestamp: endMs, PnL: endPnl}
		return out
	}

	out := make(Series, 0, len(inWindow)+2)
	out = append(out, PnLPoint{Timestamp: startMs, PnL: startPnl})

	amplitude := jitterFraction * math.Abs(swing)
	lastMs := startMs
	for _, t := range inWindow {
		ts := t.Timestamp.UnixMilli()
		progress := float64(ts-startMs) / float64(duration)
		pnl := startPnl + swing*progress
		if rng != nil {
			pnl += (rng.Float64() - 0.5) * amplitude
		}
		out = append(out, PnLPoint{Timestamp: ts, PnL: pnl})
		lastMs = ts
	}

	if lastMs < endMs-pinTolerance.Milliseconds() {
		out = append(out, PnLPoint{Timestamp: endMs, PnL: endPnl})
	} else {
		out[len(out)-1].PnL = endPnl
	}
	return out
}

// tradesBetween devuelve los trades con timestamp en [startMs, endMs], del más viejo al más nuevo.
func tradesBetween(trades []Trade, startMs, endMs int64) []Trade {
	var out []Trade
	for _, t := range trades {
		ts := t.Timestamp.UnixMilli()
		if ts >= startMs && ts <= endMs {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// SyntheticHistory reconstruye las cuatro series a partir de los deltas por periodo
// del leaderboard y de los trades recientes.
//
// Cada delta es el CAMBIO dentro de la ventana, así que el PnL absoluto al inicio
// es total(ALL) - delta. ALL arranca en 0 en el primer trade conocido (si es anterior
// al lookback de 180 días) o en now-180d.
func SyntheticHistory(now time.Time, deltas map[Period]float64, trades []Trade, seed func(Timeframe) *rand.Rand) History {
	sorted := make([]Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	total := deltas[PeriodAll]
	rngFor := func(tf Timeframe) *rand.Rand {
		if seed == nil {
			return nil
		}
		return seed(tf)
	}

	h := make(History, 4)
	for _, tf := range []Timeframe{Timeframe1D, Timeframe1W, Timeframe1M} {
		start := now.Add(-tf.Window())
		h[tf] = BuildTimeline(start, now, total-deltas[tf.Period()], total, tf.Points(), sorted, rngFor(tf))
	}

	allStart := now.Add(-TimeframeAll.Window())
	if len(sorted) > 0 {
		first := sorted[0].Timestamp
		if first.Unix() > 0 && first.Before(allStart) {
			allStart = first
		}
	}
	h[TimeframeAll] = BuildTimeline(allStart, now, 0, total, TimeframeAll.Points(), sorted, rngFor(TimeframeAll))
	return h
}

// MinimalSeries es el último recurso del consumidor: una línea de dos puntos
// [(now-30d, total-delta), (now, total)].
func MinimalSeries(now time.Time, total, delta float64) Series {
	return Series{
		{Timestamp: now.Add(-30 * 24 * time.Hour).UnixMilli(), PnL: total - delta},
		{Timestamp: now.UnixMilli(), PnL: total},
	}
}
