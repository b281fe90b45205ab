// Package buddy implements the conversational trading buddy: keyword
// emotion classification, templated replies built from the trade history,
// and a turn-by-turn chat session.
package buddy

import "strings"

// Emotion is a classified emotional state of a chat message.
type Emotion string

const (
	EmotionNone          Emotion = ""
	EmotionAnger         Emotion = "anger"
	EmotionFear          Emotion = "fear"
	EmotionFOMO          Emotion = "fomo"
	EmotionOverconfident Emotion = "overconfident"
	EmotionRevenge       Emotion = "revenge"
	EmotionGreed         Emotion = "greed"
)

func (e Emotion) String() string {
	if e == EmotionNone {
		return "none"
	}
	return string(e)
}

type category struct {
	emotion  Emotion
	keywords []string
}

// Checked in this order; the first category with a hit wins.
var categories = []category{
	{EmotionAnger, []string{"annoyed", "angry", "furious", "frustrated", "pissed", "mad", "rage"}},
	{EmotionFear, []string{"scared", "afraid", "nervous", "anxious", "worried", "fearful", "unsure"}},
	{EmotionFOMO, []string{"missing out", "everyone", "fomo", "too late", "late", "chase", "chasing"}},
	{EmotionOverconfident, []string{"easy", "guaranteed", "cant lose", "sure thing", "obvious", "definitely", "100%"}},
	{EmotionRevenge, []string{"get it back", "recover", "make it back", "lost earlier", "revenge", "recoup"}},
	{EmotionGreed, []string{"more", "bigger", "double", "increase size", "load up", "all in"}},
}

// Emotions lists the categories in classification order.
func Emotions() []Emotion {
	out := make([]Emotion, len(categories))
	for i, c := range categories {
		out[i] = c.emotion
	}
	return out
}

// Classify returns the first emotion whose keywords occur in message.
// Matching is case-insensitive substring search, so a keyword can hit
// inside a longer word ("mad" in "made").
func Classify(message string) Emotion {
	lower := strings.ToLower(message)
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.emotion
			}
		}
	}
	return EmotionNone
}
