package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Answer is a questionnaire answer. The concrete types are Scale, YesNo,
// Text, Numeric and Unparsed.
type Answer interface {
	fits(kind AnswerKind) bool
	String() string
}

// Scale is a 1-10 rating.
type Scale int

// YesNo is a yes/no answer.
type YesNo bool

// Text is a free text answer.
type Text string

// Numeric is an integer answer entered as a number string.
type Numeric int

// Unparsed holds a stored value that does not match its question's kind.
// It never satisfies a numeric or yes/no comparison.
type Unparsed string

const (
	ScaleMin = 1
	ScaleMax = 10
)

func (a Scale) fits(k AnswerKind) bool {
	return k == KindScale && a >= ScaleMin && a <= ScaleMax
}

func (YesNo) fits(k AnswerKind) bool {
	return k == KindYesNo
}

func (Text) fits(k AnswerKind) bool {
	return k == KindText
}

func (Numeric) fits(k AnswerKind) bool {
	return k == KindNumeric
}

func (Unparsed) fits(AnswerKind) bool {
	return false
}

func (a Scale) String() string {
	return strconv.Itoa(int(a))
}

func (a Numeric) String() string {
	return strconv.Itoa(int(a))
}

func (a Text) String() string {
	return string(a)
}

func (a Unparsed) String() string {
	return string(a)
}

func (a YesNo) String() string {
	if a {
		return "yes"
	}
	return "no"
}

// Responses maps question ids to answers. A nil Responses means the
// questionnaire has not been completed.
type Responses map[QuestionID]Answer

// Int returns the integer value of a scale or numeric answer. Missing or
// unparsed answers report false.
func (r Responses) Int(q QuestionID) (int, bool) {
	switch a := r[q].(type) {
	case Scale:
		return int(a), true
	case Numeric:
		return int(a), true
	}
	return 0, false
}

// Yes reports whether q was answered "yes".
func (r Responses) Yes(q QuestionID) bool {
	a, ok := r[q].(YesNo)
	return ok && bool(a)
}

// No reports whether q was answered "no".
func (r Responses) No(q QuestionID) bool {
	a, ok := r[q].(YesNo)
	return ok && !bool(a)
}

// Text returns the text of a free text answer, or "".
func (r Responses) Text(q QuestionID) string {
	if a, ok := r[q].(Text); ok {
		return string(a)
	}
	return ""
}

// Has reports whether q has any answer.
func (r Responses) Has(q QuestionID) bool {
	_, ok := r[q]
	return ok
}

// MarshalJSON writes answers in their wire form: scale as a number, yes/no
// as "yes"/"no", numeric as a number string, text and unparsed as strings.
func (r Responses) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	out := make(map[string]interface{}, len(r))
	for q, a := range r {
		switch v := a.(type) {
		case Scale:
			out[string(q)] = int(v)
		case nil:
			continue
		default:
			out[string(q)] = v.String()
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes answers according to the catalog kind of each
// question. Unknown question ids are dropped.
func (r *Responses) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*r = nil
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Responses, len(raw))
	for key, value := range raw {
		q := QuestionID(key)
		kind, ok := KindOf(q)
		if !ok {
			continue
		}
		var v interface{}
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
		out[q] = ParseAnswer(kind, v)
	}
	*r = out
	return nil
}

// ParseAnswer converts a decoded JSON value (or user input string) into the
// answer variant for kind. It never fails: values that do not fit the kind
// become Unparsed.
func ParseAnswer(kind AnswerKind, v interface{}) Answer {
	text := textOf(v)
	switch kind {
	case KindScale:
		if n, ok := integerOf(v); ok && n >= ScaleMin && n <= ScaleMax {
			return Scale(n)
		}
		return Unparsed(text)
	case KindNumeric:
		if n, ok := integerOf(v); ok {
			return Numeric(n)
		}
		return Unparsed(text)
	case KindYesNo:
		if b, ok := v.(bool); ok {
			return YesNo(b)
		}
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "yes", "y":
			return YesNo(true)
		case "no", "n":
			return YesNo(false)
		}
		return Unparsed(text)
	default:
		return Text(text)
	}
}

func integerOf(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func textOf(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
