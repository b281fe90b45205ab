// Package patterns provides behavioral pattern detection over completed
// trades.
package patterns

import (
	"fmt"

	"trade-buddy/internal/analysis"
	"trade-buddy/internal/models"
)

// Rule is one behavioral pattern: a predicate over completed trades and the
// number of matches needed before it is reported.
type Rule struct {
	Title    string
	Type     models.InsightType
	MinCount int
	Match    func(t models.Trade) bool
	Describe func(count int) string
}

// BehaviorDetector evaluates a fixed rule table against completed trades.
type BehaviorDetector struct {
	rules []Rule
}

var _ analysis.PatternDetector = (*BehaviorDetector)(nil)

// NewBehaviorDetector creates a detector with the standard six rules.
func NewBehaviorDetector() *BehaviorDetector {
	return &BehaviorDetector{rules: defaultRules()}
}

func (d *BehaviorDetector) Name() string {
	return "BehaviorDetector"
}

// Rules returns the rule table in evaluation order.
func (d *BehaviorDetector) Rules() []Rule {
	out := make([]Rule, len(d.rules))
	copy(out, d.rules)
	return out
}

// Detect evaluates every rule against the completed subset of trades.
// Insights come back in rule order; a rule is reported only once its
// match count reaches MinCount.
func (d *BehaviorDetector) Detect(trades []models.Trade) []models.Insight {
	completed := Completed(trades)

	insights := make([]models.Insight, 0, len(d.rules))
	for _, r := range d.rules {
		count := 0
		for _, t := range completed {
			if r.Match(t) {
				count++
			}
		}
		if count < r.MinCount {
			continue
		}
		insights = append(insights, models.Insight{
			Type:        r.Type,
			Title:       r.Title,
			Description: r.Describe(count),
			Count:       count,
		})
	}
	return insights
}

// Detect runs the standard rule set.
func Detect(trades []models.Trade) []models.Insight {
	return NewBehaviorDetector().Detect(trades)
}

// Completed filters trades whose questionnaire has been answered.
func Completed(trades []models.Trade) []models.Trade {
	var out []models.Trade
	for _, t := range trades {
		if t.Completed() {
			out = append(out, t)
		}
	}
	return out
}

func defaultRules() []Rule {
	return []Rule{
		{
			Title:    "Revenge Trading",
			Type:     models.InsightWarning,
			MinCount: 2,
			Match: func(t models.Trade) bool {
				return t.IsLoss() && t.Responses.Yes(models.QuestionRevenge)
			},
			Describe: func(n int) string {
				return fmt.Sprintf("You've taken %d revenge trades trying to win back losses. Step away after a loss before you size up again.", n)
			},
		},
		{
			Title:    "FOMO Entries",
			Type:     models.InsightWarning,
			MinCount: 2,
			Match: func(t models.Trade) bool {
				return t.IsLoss() && t.Responses.Yes(models.QuestionFOMO)
			},
			Describe: func(n int) string {
				return fmt.Sprintf("%d losing trades were FOMO entries. If you missed the move, let it go. There is always another setup.", n)
			},
		},
		{
			Title:    "Stop Loss Issues",
			Type:     models.InsightWarning,
			MinCount: 2,
			Match: func(t models.Trade) bool {
				return t.IsLoss() && t.Responses.Yes(models.QuestionStopLoss)
			},
			Describe: func(n int) string {
				return fmt.Sprintf("You moved or ignored your stop loss on %d losing trades. Set it before entry and leave it alone.", n)
			},
		},
		{
			Title:    "Overconfidence Risk",
			Type:     models.InsightInfo,
			MinCount: 3,
			Match: func(t models.Trade) bool {
				c, ok := t.Responses.Int(models.QuestionConfidence)
				return t.IsWin() && ok && c >= 8
			},
			Describe: func(n int) string {
				return fmt.Sprintf("%d of your wins came with confidence of 8 or higher. Keep your size steady so a streak doesn't turn into carelessness.", n)
			},
		},
		{
			Title:    "Plan Deviations",
			Type:     models.InsightWarning,
			MinCount: 3,
			Match: func(t models.Trade) bool {
				return t.Responses.No(models.QuestionPlan)
			},
			Describe: func(n int) string {
				return fmt.Sprintf("%d trades were taken outside your plan. Write the plan down before you enter.", n)
			},
		},
		{
			Title:    "Impulsive Entries",
			Type:     models.InsightWarning,
			MinCount: 3,
			Match: func(t models.Trade) bool {
				i, ok := t.Responses.Int(models.QuestionImpulse)
				return ok && i < 5
			},
			Describe: func(n int) string {
				return fmt.Sprintf("%d trades were entered within 5 minutes. Slow down and confirm your setup before clicking.", n)
			},
		},
	}
}
