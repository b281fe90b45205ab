package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"trade-buddy/internal/models"
)

// PromptForSymbol prompts for a ticker symbol.
func PromptForSymbol() (string, error) {
	var symbol string
	prompt := &survey.Input{
		Message: "Symbol:",
		Help:    "The instrument you traded, e.g. EURUSD, AAPL, NQ",
	}

	err := survey.AskOne(prompt, &symbol, survey.WithValidator(func(val interface{}) error {
		if models.NormalizeSymbol(val.(string)) == "" {
			return fmt.Errorf("symbol cannot be empty")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}
	return models.NormalizeSymbol(symbol), nil
}

// PromptForOutcome prompts for win or loss.
func PromptForOutcome() (models.Outcome, error) {
	var selected string
	prompt := &survey.Select{
		Message: "Outcome:",
		Options: []string{"win", "loss"},
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	o, _ := models.ParseOutcome(selected)
	return o, nil
}

// PromptForProfit prompts for the signed profit percentage.
func PromptForProfit() (float64, error) {
	var raw string
	prompt := &survey.Input{
		Message: "Profit/loss (%):",
		Help:    "Signed percentage, e.g. 1.5 or -0.8",
		Default: "0",
	}

	err := survey.AskOne(prompt, &raw, survey.WithValidator(func(val interface{}) error {
		if _, err := parsePercent(val.(string)); err != nil {
			return fmt.Errorf("enter a number like 1.5 or -0.8")
		}
		return nil
	}))
	if err != nil {
		return 0, err
	}
	return parsePercent(raw)
}

func parsePercent(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// PromptForText prompts for optional free text.
func PromptForText(message, help string) (string, error) {
	var text string
	prompt := &survey.Input{Message: message, Help: help}
	if err := survey.AskOne(prompt, &text); err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// PromptConfirm asks a yes/no question defaulting to no.
func PromptConfirm(message string) (bool, error) {
	ok := false
	prompt := &survey.Confirm{Message: message}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

var scaleOptions = func() []string {
	opts := make([]string, 0, models.ScaleMax-models.ScaleMin+1)
	for i := models.ScaleMin; i <= models.ScaleMax; i++ {
		opts = append(opts, strconv.Itoa(i))
	}
	return opts
}()

// PromptForQuestionnaire asks every question for outcome in order.
func PromptForQuestionnaire(outcome models.Outcome) (models.Responses, error) {
	questions := models.QuestionsFor(outcome)
	r := make(models.Responses, len(questions))

	for _, q := range questions {
		var raw string
		var err error
		switch q.Kind {
		case models.KindScale:
			err = survey.AskOne(&survey.Select{
				Message: q.Prompt,
				Options: scaleOptions,
				Help:    "1 = not at all, 10 = completely",
				Default: "5",
			}, &raw)
		case models.KindYesNo:
			err = survey.AskOne(&survey.Select{
				Message: q.Prompt,
				Options: []string{"yes", "no"},
			}, &raw)
		case models.KindNumeric:
			err = survey.AskOne(&survey.Input{Message: q.Prompt}, &raw, survey.WithValidator(func(val interface{}) error {
				if _, err := strconv.Atoi(strings.TrimSpace(val.(string))); err != nil {
					return fmt.Errorf("enter a whole number")
				}
				return nil
			}))
		default:
			err = survey.AskOne(&survey.Input{Message: q.Prompt}, &raw)
		}
		if err != nil {
			return nil, err
		}
		r[q.ID] = models.ParseAnswer(q.Kind, strings.TrimSpace(raw))
	}
	return r, nil
}
