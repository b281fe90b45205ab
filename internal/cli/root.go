// Package cli provides the command-line interface for the trading buddy.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trade-buddy/internal/buddy"
	"trade-buddy/internal/config"
	"trade-buddy/internal/journal"
	"trade-buddy/internal/logging"
	"trade-buddy/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-01"
)

// StoreOpener opens the trade store described by cfg.
type StoreOpener func(cfg *config.Config, logger zerolog.Logger) (store.TradeStore, io.Closer, error)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.TradeStore
	Journal *journal.Journal

	openStore   StoreOpener
	closer      io.Closer
	sessionOpts []buddy.Option
}

// OpenSQLiteStore opens the SQLite journal at cfg.Journal.DBPath.
func OpenSQLiteStore(cfg *config.Config, logger zerolog.Logger) (store.TradeStore, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Journal.DBPath), 0755); err != nil {
		return nil, nil, err
	}
	s, err := store.NewSQLiteStore(cfg.Journal.DBPath, logger)
	if err != nil {
		return nil, nil, err
	}
	return s, s, nil
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	return newRootCmd(&App{
		Config:    cfg,
		Logger:    logger,
		openStore: OpenSQLiteStore,
	})
}

func newRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "buddy",
		Short: "Trade Buddy - a trading psychology journal",
		Long: `Trade Buddy is a journal for the psychology behind your trades.

Log each trade with a short questionnaire, review your statistics and the
behavioral patterns found in your history, and talk things through with
the buddy before you click buy.

Use 'buddy help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/trade-buddy)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	addCoreCommands(rootCmd, app)
	addJournalCommands(rootCmd, app)
	addBuddyCommands(rootCmd, app)

	return rootCmd
}

// init applies global flags and opens the journal.
func (a *App) init(cmd *cobra.Command) error {
	if dir, _ := cmd.Flags().GetString("config"); dir != "" {
		cfg, err := config.Load(dir)
		if err != nil {
			return err
		}
		a.Config = cfg
		a.Logger = logging.NewLoggerWithConfig(cfg.LogConfig())
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		a.Logger = a.Logger.Level(zerolog.DebugLevel)
	}
	if !a.Config.UI.ColorEnabled {
		_ = cmd.Flags().Set("no-color", "true")
	}

	if a.Journal != nil {
		return nil
	}
	if a.Store == nil {
		s, closer, err := a.openStore(a.Config, a.Logger)
		if err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to open journal database, using an in-memory journal")
			s = store.NewMemoryStore()
		}
		a.Store, a.closer = s, closer
	}

	a.Journal = journal.New(a.Store, a.Logger)
	a.Journal.Load(logging.WithLogger(context.Background(), a.Logger))
	return nil
}

func (a *App) close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

func (a *App) newSession(opts ...buddy.Option) *buddy.Session {
	all := []buddy.Option{
		buddy.WithTypingDelay(a.Config.Buddy.TypingBase, a.Config.Buddy.TypingJitter),
		buddy.WithLogger(a.Logger),
	}
	all = append(all, a.sessionOpts...)
	all = append(all, opts...)
	return buddy.NewSession(a.Journal, all...)
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("Trade Buddy v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": app.Config.Dir})
			}
			output.Println(app.Config.Dir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Journal")
	output.Printf("  Database:      %s\n", cfg.Journal.DBPath)
	output.Println()

	output.Bold("Buddy")
	output.Printf("  Typing delay:  %s + up to %s\n", cfg.Buddy.TypingBase, cfg.Buddy.TypingJitter)
	output.Printf("  Greeting:      %s\n", TruncateString(cfg.Buddy.Greeting, 60))
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:         %s\n", cfg.Logging.Level)
	output.Printf("  Console:       %v\n", cfg.Logging.Console)
	output.Printf("  File:          %v (%s)\n", cfg.Logging.File, cfg.Logging.FilePath)
	output.Println()

	output.Bold("UI")
	output.Printf("  Colors:        %v\n", cfg.UI.ColorEnabled)
	output.Printf("  Date format:   %s %s\n", cfg.UI.DateFormat, cfg.UI.TimeFormat)
}
