package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"trade-buddy/internal/buddy"
	"trade-buddy/internal/models"
)

const chatWidth = 72

// Chat styles
var (
	buddyBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#7C3AED")).
				Padding(0, 1)

	userBubbleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	buddyLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")).
			Bold(true)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	typingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true)
)

// renderMessage draws one chat message as a labelled bubble. Buddy messages
// sit on the left, the user's on the right.
func renderMessage(msg models.ChatMessage, width int) string {
	inner := width - 4
	if n := lipgloss.Width(msg.Text); n < inner {
		inner = n
	}
	if inner < 1 {
		inner = 1
	}

	if msg.Role == models.RoleUser {
		block := lipgloss.JoinVertical(lipgloss.Right,
			userLabelStyle.Render("You"),
			userBubbleStyle.Width(inner+2).Render(msg.Text),
		)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		buddyLabelStyle.Render("Buddy"),
		buddyBubbleStyle.Width(inner+2).Render(msg.Text),
	)
}

func addBuddyCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newChatCmd(app))
	rootCmd.AddCommand(newSayCmd(app))
}

func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to your trading buddy",
		Long: `Start a conversation with the buddy. Tell it what you're about to do
or how you feel; it replies based on your journal.

Type 'exit' or press Ctrl+C to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()

			session := app.newSession(
				buddy.WithGreeting(app.Config.Buddy.Greeting),
				buddy.WithStateListener(func(st buddy.State) {
					if st == buddy.StateComposing && !output.IsJSON() {
						fmt.Fprintln(errOut, typingStyle.Render("Buddy is typing..."))
					}
				}),
			)

			if !output.IsJSON() {
				for _, m := range session.Messages() {
					fmt.Fprintln(out, renderMessage(m, chatWidth))
				}
			}

			read := lineReader(cmd.InOrStdin())
			for {
				text, err := read()
				if errors.Is(err, io.EOF) || errors.Is(err, terminal.InterruptErr) {
					break
				}
				if err != nil {
					return err
				}
				switch strings.ToLower(strings.TrimSpace(text)) {
				case "exit", "quit", "/q":
					return finishChat(output, session)
				}

				reply, err := session.Submit(text)
				if err != nil {
					return err
				}
				if reply == nil || output.IsJSON() {
					continue
				}
				fmt.Fprintln(out, renderMessage(*reply, chatWidth))
			}
			return finishChat(output, session)
		},
	}
}

func finishChat(output *Output, session *buddy.Session) error {
	if output.IsJSON() {
		return output.JSON(session.Messages())
	}
	output.Dim("Take care. Log the trade when you're done.")
	return nil
}

// lineReader reads chat input with a survey prompt on a terminal and line by
// line otherwise.
func lineReader(in io.Reader) func() (string, error) {
	if f, ok := in.(*os.File); ok && isCharDevice(f) {
		return func() (string, error) {
			var text string
			err := survey.AskOne(&survey.Input{Message: "You:"}, &text)
			return text, err
		}
	}
	scanner := bufio.NewScanner(in)
	return func() (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return scanner.Text(), nil
	}
}

func isCharDevice(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func newSayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "say <message>",
		Short: "Get a single reply from the buddy",
		Example: `  buddy say "I want to revenge trade EURUSD"
  buddy say --json I feel scared about this entry`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			message := strings.Join(args, " ")

			reply, err := app.newSession().Submit(message)
			if err != nil {
				return err
			}
			// blank input
			if reply == nil {
				return nil
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{
					"emotion": buddy.Classify(message).String(),
					"symbol":  buddy.ExtractSymbol(message),
					"reply":   reply.Text,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderMessage(*reply, chatWidth))
			return nil
		},
	}
}
