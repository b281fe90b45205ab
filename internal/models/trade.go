package models

import (
	"strings"
	"time"
)

// Outcome is the result of a trade.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

// Valid reports whether o is one of the known outcomes.
func (o Outcome) Valid() bool {
	return o == OutcomeWin || o == OutcomeLoss
}

// ParseOutcome accepts "win"/"loss" in any case, plus "w"/"l".
func ParseOutcome(s string) (Outcome, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "win", "w":
		return OutcomeWin, true
	case "loss", "l", "lose":
		return OutcomeLoss, true
	}
	return "", false
}

// Trade represents one logged trade outcome. Trades are immutable once
// saved; Responses stays nil until the questionnaire is completed.
type Trade struct {
	ID                string    `json:"id"`
	Symbol            string    `json:"symbol"`
	Outcome           Outcome   `json:"outcome"`
	Profit            float64   `json:"profit"` // signed percentage
	Timestamp         time.Time `json:"timestamp"`
	Notes             string    `json:"notes,omitempty"`
	PostTradeThoughts string    `json:"postTradeThoughts,omitempty"`
	Responses         Responses `json:"responses"`
}

// Completed reports whether the psychological questionnaire was answered.
func (t Trade) Completed() bool {
	return t.Responses != nil
}

// IsLoss reports whether the trade was a loss.
func (t Trade) IsLoss() bool {
	return t.Outcome == OutcomeLoss
}

// IsWin reports whether the trade was a win.
func (t Trade) IsWin() bool {
	return t.Outcome == OutcomeWin
}

// TradeDraft is a trade still being entered by the user.
type TradeDraft struct {
	Symbol            string
	Outcome           Outcome
	Profit            float64
	Notes             string
	PostTradeThoughts string
	Responses         Responses
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
