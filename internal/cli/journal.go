package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"trade-buddy/internal/analysis/patterns"
	"trade-buddy/internal/analysis/stats"
	apperrors "trade-buddy/internal/errors"
	"trade-buddy/internal/models"
)

// addJournalCommands adds trade journal commands.
func addJournalCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newLogCmd(app))
	rootCmd.AddCommand(newListCmd(app))
	rootCmd.AddCommand(newShowCmd(app))
	rootCmd.AddCommand(newDeleteCmd(app))
	rootCmd.AddCommand(newStatsCmd(app))
	rootCmd.AddCommand(newInsightsCmd(app))
	rootCmd.AddCommand(newExportCmd(app))
	rootCmd.AddCommand(newImportCmd(app))
}

func newLogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a trade",
		Long: `Log a trade outcome and answer the post-trade questionnaire.

Without --symbol and --outcome the trade is entered interactively. With both
flags set, either answer every question with --answer question=value or pass
--skip-questions to log the trade without a questionnaire. A partial set of
answers is rejected.

Win questions:  confidence (1-10), plan, emotion, size, impulse (minutes waited)
Loss questions: revenge, stoploss, emotion, plan, fomo`,
		Example: `  buddy log
  buddy log --symbol EURUSD --outcome loss --profit -1.2 --skip-questions
  buddy log -s NQ -o win -p 2.5 -a confidence=7 -a plan=yes -a emotion=calm \
    -a size=no -a impulse=15`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			symbol, _ := cmd.Flags().GetString("symbol")
			outcomeFlag, _ := cmd.Flags().GetString("outcome")
			profit, _ := cmd.Flags().GetFloat64("profit")
			notes, _ := cmd.Flags().GetString("notes")
			thoughts, _ := cmd.Flags().GetString("thoughts")
			answers, _ := cmd.Flags().GetStringArray("answer")
			skip, _ := cmd.Flags().GetBool("skip-questions")

			draft := models.TradeDraft{
				Symbol:            symbol,
				Profit:            profit,
				Notes:             notes,
				PostTradeThoughts: thoughts,
			}
			if outcomeFlag != "" {
				o, ok := models.ParseOutcome(outcomeFlag)
				if !ok {
					return apperrors.NewValidationError("outcome", outcomeFlag, "must be win or loss", apperrors.ErrInvalidOutcome)
				}
				draft.Outcome = o
			}

			interactive := symbol == "" || outcomeFlag == ""
			if interactive {
				if err := promptDraft(cmd, &draft); err != nil {
					return err
				}
			}

			if skip && len(answers) > 0 {
				return fmt.Errorf("--skip-questions cannot be combined with --answer")
			}

			switch {
			case len(answers) > 0:
				r, err := parseAnswerFlags(answers)
				if err != nil {
					return err
				}
				draft.Responses = r
			case interactive && !skip:
				r, err := PromptForQuestionnaire(draft.Outcome)
				if err != nil {
					return err
				}
				draft.Responses = r
			case !interactive && !skip:
				return apperrors.NewValidationError("answer", "", "answer the questionnaire with --answer or pass --skip-questions", apperrors.ErrIncompleteQuestionnaire)
			}

			trade, err := app.Journal.Record(ctx, draft)
			if err != nil {
				output.Error("Trade not saved: %v", err)
				return err
			}

			snap := app.Journal.Snapshot()
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"trade":    trade,
					"insights": snap.Insights,
				})
			}

			output.Success("Logged %s %s %s", trade.Symbol, output.Outcome(string(trade.Outcome)), output.FormatProfit(trade.Profit))
			output.Dim("ID: %s", trade.ID)
			if !trade.Completed() {
				output.Dim("No questionnaire recorded. Patterns only use completed trades.")
			}
			if len(snap.Insights) > 0 {
				output.Println()
				printInsights(output, snap.Insights)
			}
			return nil
		},
	}

	cmd.Flags().StringP("symbol", "s", "", "Ticker symbol")
	cmd.Flags().StringP("outcome", "o", "", "Trade outcome (win or loss)")
	cmd.Flags().Float64P("profit", "p", 0, "Profit or loss in percent (signed)")
	cmd.Flags().String("notes", "", "Trade notes")
	cmd.Flags().String("thoughts", "", "Post-trade thoughts")
	cmd.Flags().StringArrayP("answer", "a", nil, "Questionnaire answer as question=value (repeatable)")
	cmd.Flags().Bool("skip-questions", false, "Log without the questionnaire")

	return cmd
}

// promptDraft fills the parts of the draft not given as flags.
func promptDraft(cmd *cobra.Command, d *models.TradeDraft) error {
	var err error
	if d.Symbol == "" {
		if d.Symbol, err = PromptForSymbol(); err != nil {
			return err
		}
	}
	if d.Outcome == "" {
		if d.Outcome, err = PromptForOutcome(); err != nil {
			return err
		}
	}
	if !cmd.Flags().Changed("profit") {
		if d.Profit, err = PromptForProfit(); err != nil {
			return err
		}
	}
	if !cmd.Flags().Changed("notes") {
		if d.Notes, err = PromptForText("Notes (optional):", "Setup, entry reason, anything worth remembering"); err != nil {
			return err
		}
	}
	if !cmd.Flags().Changed("thoughts") {
		if d.PostTradeThoughts, err = PromptForText("Post-trade thoughts (optional):", "How do you feel about the trade now?"); err != nil {
			return err
		}
	}
	return nil
}

// parseAnswerFlags turns question=value pairs into responses.
func parseAnswerFlags(values []string) (models.Responses, error) {
	r := make(models.Responses, len(values))
	for _, kv := range values {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, apperrors.NewValidationError("answer", kv, "expected question=value", apperrors.ErrIncompleteQuestionnaire)
		}
		q := models.QuestionID(strings.ToLower(strings.TrimSpace(key)))
		kind, known := models.KindOf(q)
		if !known {
			return nil, apperrors.NewValidationError("answer", key, "unknown question", apperrors.ErrIncompleteQuestionnaire)
		}
		r[q] = models.ParseAnswer(kind, strings.TrimSpace(value))
	}
	return r, nil
}

func newListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged trades",
		Long:  "List logged trades, newest first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			limit, _ := cmd.Flags().GetInt("limit")
			symbol, _ := cmd.Flags().GetString("symbol")
			symbol = models.NormalizeSymbol(symbol)

			trades := app.Journal.Trades()
			var rows []models.Trade
			for i := len(trades) - 1; i >= 0; i-- {
				if symbol != "" && trades[i].Symbol != symbol {
					continue
				}
				rows = append(rows, trades[i])
				if limit > 0 && len(rows) == limit {
					break
				}
			}

			if output.IsJSON() {
				if rows == nil {
					rows = []models.Trade{}
				}
				return output.JSON(rows)
			}

			if len(rows) == 0 {
				output.Info("No trades logged yet.")
				output.Dim("Tip: run 'buddy log' after your next trade.")
				return nil
			}

			ui := app.Config.UI
			table := NewTable(output, "ID", "Date", "Symbol", "Outcome", "Profit", "Questionnaire")
			for _, t := range rows {
				answered := output.DimText("no")
				if t.Completed() {
					answered = "yes"
				}
				table.AddRow(
					ShortID(t.ID),
					FormatTimestamp(t.Timestamp, ui.DateFormat, ui.TimeFormat),
					t.Symbol,
					output.Outcome(string(t.Outcome)),
					output.FormatProfit(t.Profit),
					answered,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", 0, "Show at most n trades (0 for all)")
	cmd.Flags().String("symbol", "", "Only show trades in this symbol")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trade-id>",
		Short: "Show a trade and its questionnaire",
		Long:  "Show a trade. The id may be shortened to any unique suffix.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			t, err := resolveTrade(app.Journal.Trades(), args[0])
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(t)
			}

			ui := app.Config.UI
			output.Bold("%s %s %s", t.Symbol, output.Outcome(string(t.Outcome)), output.FormatProfit(t.Profit))
			output.Dim("%s  %s", t.ID, FormatTimestamp(t.Timestamp, ui.DateFormat, ui.TimeFormat))
			if t.Notes != "" {
				output.Printf("  Notes:    %s\n", t.Notes)
			}
			if t.PostTradeThoughts != "" {
				output.Printf("  Thoughts: %s\n", t.PostTradeThoughts)
			}
			output.Println()

			if !t.Completed() {
				output.Dim("No questionnaire recorded.")
				return nil
			}
			output.Bold("Questionnaire")
			for _, q := range models.QuestionsFor(t.Outcome) {
				answer := "-"
				if a, ok := t.Responses[q.ID]; ok && a != nil {
					answer = a.String()
				}
				output.Printf("  %s\n    %s\n", output.DimText(q.Prompt), answer)
			}
			return nil
		},
	}
}

func newDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <trade-id>",
		Short: "Delete a trade",
		Long:  "Delete a trade. The id may be shortened to any unique suffix.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			t, err := resolveTrade(app.Journal.Trades(), args[0])
			if err != nil {
				return err
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				ok, err := PromptConfirm(fmt.Sprintf("Delete %s %s trade %s?", t.Symbol, t.Outcome, ShortID(t.ID)))
				if err != nil {
					return err
				}
				if !ok {
					output.Dim("Cancelled")
					return nil
				}
			}

			if err := app.Journal.Delete(ctx, t.ID); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"deleted": t.ID})
			}
			output.Success("Deleted trade %s", t.ID)
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// resolveTrade finds a trade by id or by a unique id suffix.
func resolveTrade(trades []models.Trade, ref string) (models.Trade, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Trade{}, fmt.Errorf("%w: empty id", apperrors.ErrTradeNotFound)
	}
	var matches []models.Trade
	for _, t := range trades {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasSuffix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return models.Trade{}, fmt.Errorf("%w: %s", apperrors.ErrTradeNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return models.Trade{}, fmt.Errorf("id %q matches %d trades, use more characters", ref, len(matches))
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show trading statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			snap := app.Journal.Snapshot()
			streak := stats.LossStreak(snap.Trades)
			completed := len(patterns.Completed(snap.Trades))

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"stats":           snap.Stats,
					"lossStreak":      streak,
					"completedTrades": completed,
				})
			}

			s := snap.Stats
			output.Bold("Statistics")
			output.Printf("  Total Trades:  %d\n", s.TotalTrades)
			output.Printf("  Wins/Losses:   %d/%d\n", s.Wins, s.Losses)
			output.Printf("  Win Rate:      %s\n", FormatWinRate(s.WinRate))
			output.Printf("  Avg Profit:    %s\n", output.FormatProfit(s.AvgProfit))
			output.Printf("  Total P&L:     %s\n", output.FormatProfit(s.TotalPnL))
			output.Printf("  Questionnaires: %d of %d\n", completed, s.TotalTrades)
			if streak > 0 {
				output.Println()
				output.Warning("Current loss streak: %d", streak)
			}
			return nil
		},
	}
}

func newInsightsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show behavioral patterns in your trades",
		Long: `Show behavioral patterns found in trades with a completed questionnaire.

A pattern is reported once it has occurred often enough; use --rules to see
every pattern and its threshold.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if showRules, _ := cmd.Flags().GetBool("rules"); showRules {
				return printRules(output)
			}

			insights := app.Journal.Snapshot().Insights
			if output.IsJSON() {
				return output.JSON(insights)
			}
			if len(insights) == 0 {
				output.Info("No patterns detected yet.")
				output.Dim("Patterns appear once the same behavior shows up in several completed questionnaires.")
				return nil
			}
			printInsights(output, insights)
			return nil
		},
	}
	cmd.Flags().Bool("rules", false, "List all pattern rules and thresholds")
	return cmd
}

func printRules(output *Output) error {
	rules := patterns.NewBehaviorDetector().Rules()
	if output.IsJSON() {
		type rule struct {
			Title    string             `json:"title"`
			Type     models.InsightType `json:"type"`
			MinCount int                `json:"minCount"`
		}
		out := make([]rule, len(rules))
		for i, r := range rules {
			out[i] = rule{Title: r.Title, Type: r.Type, MinCount: r.MinCount}
		}
		return output.JSON(out)
	}

	table := NewTable(output, "Pattern", "Severity", "Reported at")
	for _, r := range rules {
		table.AddRow(r.Title, string(r.Type), fmt.Sprintf("%d trades", r.MinCount))
	}
	table.Render()
	return nil
}

func printInsights(output *Output, insights []models.Insight) {
	output.Bold("Patterns")
	for _, in := range insights {
		title := fmt.Sprintf("[%d] %s", in.Count, in.Title)
		if in.Type == models.InsightWarning {
			output.Warning("  ! %s", title)
		} else {
			output.Info("  i %s", title)
		}
		output.Printf("    %s\n", in.Description)
	}
}

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export the journal as JSON",
		Long:  "Export all trades as a JSON array. Use - to write to stdout.",
		Example: `  buddy export
  buddy export backup.json
  buddy export - > journal.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			data, err := app.Journal.Export()
			if err != nil {
				return err
			}

			path := ExportFileName(time.Now())
			if len(args) == 1 {
				path = args[0]
			}
			if path == "-" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"path": path, "trades": len(app.Journal.Trades())})
			}
			output.Success("Exported %d trades to %s", len(app.Journal.Trades()), path)
			return nil
		},
	}
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the journal with a JSON export",
		Long: `Import a JSON array of trades. The import replaces every logged trade;
if the file is not a valid JSON array of trades nothing changes. Use - to
read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read import: %w", err)
			}

			n, err := app.Journal.Import(ctx, data)
			if err != nil {
				output.Error("Error importing data. Please check the file format.")
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]int{"imported": n})
			}
			output.Success("Imported %d trades", n)
			return nil
		},
	}
}
