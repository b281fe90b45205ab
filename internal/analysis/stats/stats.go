// Package stats derives summary metrics from the trade log.
package stats

import (
	"github.com/shopspring/decimal"

	"trade-buddy/internal/models"
)

// Stats summarizes a trade sequence. Rates and profits are rounded for
// display; they are computed from unrounded sums.
type Stats struct {
	TotalTrades int     `json:"totalTrades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"winRate"`   // percent, 1 dp
	AvgProfit   float64 `json:"avgProfit"` // percent, 2 dp
	TotalPnL    float64 `json:"totalPnL"`  // percent, 2 dp
}

// Compute aggregates trades. An empty sequence yields all zeros.
func Compute(trades []models.Trade) Stats {
	var s Stats
	var total float64

	for _, t := range trades {
		switch t.Outcome {
		case models.OutcomeWin:
			s.Wins++
		case models.OutcomeLoss:
			s.Losses++
		}
		total += t.Profit
	}

	s.TotalTrades = len(trades)
	s.TotalPnL = round(total, 2)
	if s.TotalTrades > 0 {
		n := float64(s.TotalTrades)
		s.WinRate = round(100*float64(s.Wins)/n, 1)
		s.AvgProfit = round(total/n, 2)
	}
	return s
}

// LossStreak counts consecutive losses at the end of the sequence, newest
// last. It stops at the first trade that is not a loss.
func LossStreak(trades []models.Trade) int {
	streak := 0
	for i := len(trades) - 1; i >= 0; i-- {
		if !trades[i].IsLoss() {
			break
		}
		streak++
	}
	return streak
}

func round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
