// Package analysis groups the derived views computed over the trade log:
// summary statistics and behavioral pattern detection.
package analysis

import (
	"trade-buddy/internal/models"
)

// PatternDetector scans a trade history and reports behavioral findings.
// Implementations hold no state between calls.
type PatternDetector interface {
	Name() string
	Detect(trades []models.Trade) []models.Insight
}
