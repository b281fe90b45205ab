package models

import "fmt"

// QuestionID identifies a questionnaire question.
type QuestionID string

const (
	QuestionEmotion    QuestionID = "emotion"
	QuestionRevenge    QuestionID = "revenge"
	QuestionFOMO       QuestionID = "fomo"
	QuestionStopLoss   QuestionID = "stoploss"
	QuestionPlan       QuestionID = "plan"
	QuestionImpulse    QuestionID = "impulse"
	QuestionConfidence QuestionID = "confidence"
	QuestionSize       QuestionID = "size"
)

// AnswerKind is the type of answer a question expects.
type AnswerKind int

const (
	KindText AnswerKind = iota
	KindYesNo
	KindScale
	KindNumeric
)

func (k AnswerKind) String() string {
	switch k {
	case KindYesNo:
		return "yes/no"
	case KindScale:
		return "scale"
	case KindNumeric:
		return "numeric"
	default:
		return "text"
	}
}

// Question is one entry of the post-trade questionnaire.
type Question struct {
	ID     QuestionID
	Kind   AnswerKind
	Prompt string
}

var questionKinds = map[QuestionID]AnswerKind{
	QuestionEmotion:    KindText,
	QuestionRevenge:    KindYesNo,
	QuestionFOMO:       KindYesNo,
	QuestionStopLoss:   KindYesNo,
	QuestionPlan:       KindYesNo,
	QuestionImpulse:    KindNumeric,
	QuestionConfidence: KindScale,
	QuestionSize:       KindYesNo,
}

var winQuestions = []Question{
	{QuestionConfidence, KindScale, "On a scale of 1-10, how confident were you entering this trade?"},
	{QuestionPlan, KindYesNo, "Did you follow your trading plan exactly?"},
	{QuestionEmotion, KindText, "What was your dominant emotion during the trade?"},
	{QuestionSize, KindYesNo, "Was your position size larger than usual?"},
	// minutes waited before entering; 0 is an immediate entry
	{QuestionImpulse, KindNumeric, "How long did you wait before entering? (minutes)"},
}

var lossQuestions = []Question{
	{QuestionRevenge, KindYesNo, "Were you trying to recover losses from a previous trade?"},
	{QuestionStopLoss, KindYesNo, "Did you move your stop loss during the trade?"},
	{QuestionEmotion, KindText, "What was your dominant emotion during the trade?"},
	{QuestionPlan, KindYesNo, "Did you follow your trading plan exactly?"},
	{QuestionFOMO, KindYesNo, "Did you enter because you feared missing out?"},
}

// QuestionsFor returns the questionnaire for an outcome, in asking order.
func QuestionsFor(o Outcome) []Question {
	var src []Question
	switch o {
	case OutcomeWin:
		src = winQuestions
	case OutcomeLoss:
		src = lossQuestions
	default:
		return nil
	}
	out := make([]Question, len(src))
	copy(out, src)
	return out
}

// KindOf returns the answer kind of a known question.
func KindOf(q QuestionID) (AnswerKind, bool) {
	k, ok := questionKinds[q]
	return k, ok
}

// CheckComplete verifies that r holds exactly one well-typed answer per
// question defined for o.
func (r Responses) CheckComplete(o Outcome) error {
	questions := QuestionsFor(o)
	if questions == nil {
		return fmt.Errorf("no questionnaire for outcome %q", o)
	}
	want := make(map[QuestionID]AnswerKind, len(questions))
	for _, q := range questions {
		want[q.ID] = q.Kind
		a, ok := r[q.ID]
		if !ok || a == nil {
			return fmt.Errorf("missing answer for %q", q.ID)
		}
		if !a.fits(q.Kind) {
			return fmt.Errorf("answer %q for %q is not a valid %s answer", a.String(), q.ID, q.Kind)
		}
	}
	for id := range r {
		if _, ok := want[id]; !ok {
			return fmt.Errorf("question %q is not asked for %s trades", id, o)
		}
	}
	return nil
}
