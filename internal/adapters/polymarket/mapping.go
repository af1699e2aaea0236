package polymarket

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

func mapPositions(raw []rawPosition) []domain.Position {
	out := make([]domain.Position, 0, len(raw))
	for _, r := range raw {
		out = append(out, domain.Position{
			ConditionID:  r.ConditionID,
			Title:        r.Title,
			Slug:         r.Slug,
			Outcome:      r.Outcome,
			Size:         float64(r.Size),
			AvgPrice:     float64(r.AvgPrice),
			CurPrice:     float64(r.CurPrice),
			CurrentValue: float64(r.CurrentValue),
			InitialValue: float64(r.InitialValue),
			CashPnl:      float64(r.CashPnl),
			RealizedPnl:  float64(r.RealizedPnl),
			Redeemable:   bool(r.Redeemable),
		})
	}
	return out
}

func mapTrades(raw []rawTrade) []domain.Trade {
	out := make([]domain.Trade, 0, len(raw))
	for _, r := range raw {
		out = append(out, domain.Trade{
			ConditionID: r.ConditionID,
			Title:       r.Title,
			Outcome:     r.Outcome,
			Side:        strings.ToUpper(r.Side),
			Price:       float64(r.Price),
			Size:        float64(r.Size),
			RealizedPnl: float64(r.RealizedPnl),
			Timestamp:   unixSeconds(r.Timestamp),
		})
	}
	return out
}

func mapActivity(raw []rawActivity) []domain.Activity {
	out := make([]domain.Activity, 0, len(raw))
	for _, r := range raw {
		out = append(out, domain.Activity{
			Type:            r.Type,
			Title:           r.Title,
			Outcome:         r.Outcome,
			Side:            r.Side,
			Price:           float64(r.Price),
			Size:            float64(r.Size),
			UsdcSize:        float64(r.UsdcSize),
			TransactionHash: r.TransactionHash,
			Timestamp:       unixSeconds(r.Timestamp),
		})
	}
	return out
}

func mapLeaderboardRow(r rawLeaderboardRow) domain.LeaderboardRow {
	wallet := r.ProxyWallet
	if wallet == "" {
		wallet = r.User
	}
	return domain.LeaderboardRow{
		Wallet:       wallet,
		UserName:     r.UserName,
		PnL:          float64(r.Pnl),
		Volume:       float64(r.Vol),
		Rank:         mapRank(r.Rank),
		ProfileImage: r.ProfileImage,
	}
}

func mapProfiles(raw []rawProfile) []domain.Profile {
	out := make([]domain.Profile, 0, len(raw))
	for _, r := range raw {
		out = append(out, domain.Profile{
			Name:         r.Name,
			Pseudonym:    r.Pseudonym,
			Wallet:       r.ProxyWallet,
			ProfileImage: r.ProfileImage,
		})
	}
	return out
}

// mapRank convierte el rank opcional: ausente, null, no numérico o <= 0 → nil.
func mapRank(r *num) *int {
	if r == nil || *r <= 0 {
		return nil
	}
	v := int(*r)
	return &v
}

// mapPnLPoints convierte {t: segundos, p: dólares} a puntos en epoch ms,
// ordenados por timestamp.
func mapPnLPoints(raw []rawPnLPoint) domain.Series {
	out := make(domain.Series, 0, len(raw))
	for _, r := range raw {
		out = append(out, domain.PnLPoint{
			Timestamp: int64(math.Round(float64(r.T) * 1000)),
			PnL:       float64(r.P),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

// unixSeconds devuelve el zero time para timestamps ausentes o no positivos.
func unixSeconds(n num) time.Time {
	if n <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(n), 0).UTC()
}
