package buddy

import (
	"fmt"
	"regexp"
	"strings"

	"trade-buddy/internal/analysis/stats"
	"trade-buddy/internal/models"
)

var symbolPattern = regexp.MustCompile(`\b[A-Z]{2,6}\b`)

// ReplyContext is what a reply template can draw on.
type ReplyContext struct {
	Emotion    Emotion
	Count      int    // emotion specific history counter
	Symbol     string // "" when the message names none
	LossStreak int
}

// ExtractSymbol returns the first 2-6 letter token of the upper-cased
// message, or "".
func ExtractSymbol(message string) string {
	return symbolPattern.FindString(strings.ToUpper(message))
}

// BuildContext derives the reply context for a classified message.
func BuildContext(emotion Emotion, trades []models.Trade, message string) ReplyContext {
	return ReplyContext{
		Emotion:    emotion,
		Count:      historyCount(emotion, trades),
		Symbol:     ExtractSymbol(message),
		LossStreak: stats.LossStreak(trades),
	}
}

// historyCount is the per emotion counter. Fear, FOMO and greed have no
// dedicated counter and report zero.
func historyCount(emotion Emotion, trades []models.Trade) int {
	count := 0
	for _, t := range trades {
		switch emotion {
		case EmotionRevenge:
			if t.Responses.Yes(models.QuestionRevenge) {
				count++
			}
		case EmotionOverconfident:
			if c, ok := t.Responses.Int(models.QuestionConfidence); t.IsLoss() && ok && c >= 8 {
				count++
			}
		case EmotionAnger:
			felt := strings.ToLower(t.Responses.Text(models.QuestionEmotion))
			if t.IsLoss() && (strings.Contains(felt, "annoy") || strings.Contains(felt, "angry")) {
				count++
			}
		}
	}
	return count
}

type template func(c ReplyContext) string

var emotionTemplates = map[Emotion]template{
	EmotionAnger: func(c ReplyContext) string {
		s := fmt.Sprintf("I can hear the frustration. Your journal has %d losing trades logged while annoyed or angry.", c.Count)
		if c.LossStreak > 0 {
			s += fmt.Sprintf(" You're %d losses deep right now, which is exactly when anger starts making the calls.", c.LossStreak)
		}
		return s + " Close the chart for ten minutes before you place anything else."
	},
	EmotionFear: func(c ReplyContext) string {
		subject := "this setup"
		if c.Symbol != "" {
			subject = c.Symbol
		}
		return fmt.Sprintf("Feeling nervous is information, not a verdict. If you're unsure about %s, cut the size in half or skip it. Fear usually means the risk is bigger than your plan allows.", subject)
	},
	EmotionFOMO: func(c ReplyContext) string {
		where := ""
		if c.Symbol != "" {
			where = " in " + c.Symbol
		}
		return fmt.Sprintf("The move you're worried about missing%s has already happened. Chasing entries is how FOMO losses pile up. Wait for a pullback to your level or let this one go.", where)
	},
	EmotionOverconfident: func(c ReplyContext) string {
		where := ""
		if c.Symbol != "" {
			where = " on " + c.Symbol
		}
		return fmt.Sprintf("Nothing in the market is guaranteed. You've logged %d losses where your confidence was 8 or higher. Keep the same size and the same stop%s.", c.Count, where)
	},
	EmotionRevenge: func(c ReplyContext) string {
		s := fmt.Sprintf("That sounds like revenge trading. You've flagged %d revenge trades in your journal", c.Count)
		if c.LossStreak > 0 {
			s += fmt.Sprintf(" and you're on a %d-loss streak", c.LossStreak)
		}
		return s + ". Trying to make it back right now usually digs the hole deeper. Step away and come back with a plan."
	},
	EmotionGreed: func(c ReplyContext) string {
		where := ""
		if c.Symbol != "" {
			where = " on " + c.Symbol
		}
		return fmt.Sprintf("Wanting to size up%s is normal after a good run, but a bigger position multiplies your mistakes too. Stick to your usual risk per trade.", where)
	},
}

var genericTemplates = []template{
	func(c ReplyContext) string {
		if c.Symbol != "" {
			return fmt.Sprintf("What's your plan for %s? Entry, stop and target before anything else.", c.Symbol)
		}
		return "What's your plan for the next trade? Entry, stop and target before anything else."
	},
	func(c ReplyContext) string {
		if c.LossStreak > 0 {
			return fmt.Sprintf("You're on a %d-loss streak. How are you holding up?", c.LossStreak)
		}
		return "How are you feeling about your trading today?"
	},
	func(c ReplyContext) string {
		if c.Symbol != "" {
			return fmt.Sprintf("Tell me more about what's on your mind with %s. Writing it down helps spot patterns.", c.Symbol)
		}
		return "Tell me more about what's on your mind. Writing it down helps spot patterns."
	},
	func(c ReplyContext) string {
		if c.Symbol != "" {
			return fmt.Sprintf("Before you trade %s, ask yourself: is this setup in your plan?", c.Symbol)
		}
		return "Before your next trade, ask yourself: is this setup in your plan?"
	},
	func(c ReplyContext) string {
		if c.LossStreak >= 3 {
			return fmt.Sprintf("%d losses in a row is a good moment to pause and review rather than push.", c.LossStreak)
		}
		return "Remember to log your next trade and answer the questionnaire. The patterns only show up if the data is there."
	},
}

// Responder turns a classified message into a reply.
type Responder struct {
	rnd Random
}

// NewResponder creates a responder. rnd is only used to pick a generic
// reply when no emotion was recognized.
func NewResponder(rnd Random) *Responder {
	if rnd == nil {
		rnd = NewRandom()
	}
	return &Responder{rnd: rnd}
}

// Respond builds the reply for message given its classified emotion and
// the trade history (oldest first).
func (r *Responder) Respond(emotion Emotion, trades []models.Trade, message string) string {
	return r.Render(BuildContext(emotion, trades, message))
}

// Render formats the reply for an already built context.
func (r *Responder) Render(c ReplyContext) string {
	if tmpl, ok := emotionTemplates[c.Emotion]; ok {
		return tmpl(c)
	}
	return genericTemplates[r.rnd.Intn(len(genericTemplates))](c)
}

// GenericTemplateCount is the size of the generic reply pool.
func GenericTemplateCount() int {
	return len(genericTemplates)
}
