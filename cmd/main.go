package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bryan-cox/jotledger/internal/clipboard"
	"github.com/bryan-cox/jotledger/internal/config"
	"github.com/bryan-cox/jotledger/internal/model"
	"github.com/bryan-cox/jotledger/internal/prompt"
	"github.com/bryan-cox/jotledger/internal/store"
)

// prompter asks the user for values that were not given as flags.
type prompter interface {
	Text(title, initial string) (string, error)
	Select(title string, options []string) (int, error)
}

// env holds the collaborators the commands depend on, so tests can swap
// them out.
type env struct {
	prompt     prompter
	today      func() model.Date
	copyText   func(string) error
	configPath string
	logLevel   *slog.LevelVar
}

func defaultEnv(logLevel *slog.LevelVar) *env {
	return &env{
		prompt:     prompt.New(os.Stdin, os.Stderr),
		today:      model.Today,
		copyText:   clipboard.CopyText,
		configPath: config.Path(),
		logLevel:   logLevel,
	}
}

// annotationHistory marks commands that operate on the stored history.
const annotationHistory = "history"

// historyCmd is the annotation set on every command that loads and saves
// the history.
func historyCmd() map[string]string {
	return map[string]string{annotationHistory: "true"}
}

// session is the state of one invocation: the loaded history and where it
// goes back to.
type session struct {
	cfg     *config.Config
	store   store.Store
	history *model.JotHistory
	path    string
}

func (s *session) close() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		slog.Warn("failed to close history store", "error", err, "path", s.path)
	}
}

// --- Cobra Command Definitions ---

// newRootCmd builds the command tree. The history is loaded before any
// subcommand runs and saved after it succeeds; a failed or aborted command
// leaves the stored history untouched.
func newRootCmd(e *env) (*cobra.Command, *session) {
	var (
		filePath string
		verbose  bool
	)
	sess := &session{}

	rootCmd := &cobra.Command{
		Use:   "jot",
		Short: "Track short jots and roll unfinished ones into the next period.",
		Long: `jot records short text items, each with a lifecycle state, grouped into
time-bounded sets. Rolling closes the current set and carries every
unfinished jot into a new one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && e.logLevel != nil {
				e.logLevel.Set(slog.LevelDebug)
			}
			if cmd.Annotations[annotationHistory] != "true" {
				return nil
			}

			cfg, err := config.Load(e.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("file") {
				cfg.File = filePath
			}
			sess.cfg = cfg
			sess.path = cfg.File

			st, err := store.Open(cfg.File)
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			sess.store = st

			h, err := st.Load(e.today())
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}
			sess.history = h
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if sess.history == nil {
				return nil
			}
			if err := sess.store.Save(sess.history); err != nil {
				return fmt.Errorf("failed to save history, changes from this run are lost: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&filePath, "file", config.DefaultFile,
		"Path to the history file (.yml/.yaml, .json, or .db for SQLite).")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")

	rootCmd.AddCommand(newViewCmd(e, sess))
	rootCmd.AddCommand(newViewHistoryCmd(e, sess))
	rootCmd.AddCommand(newNewCmd(e, sess))
	rootCmd.AddCommand(newUpdateCmd(e, sess))
	rootCmd.AddCommand(newDeleteCmd(sess))
	rootCmd.AddCommand(newRollCmd(e, sess))

	return rootCmd, sess
}

// execute runs the command tree and returns the process exit code.
func execute(rootCmd *cobra.Command, sess *session) int {
	err := rootCmd.Execute()
	sess.close()
	if err != nil {
		slog.Error("command failed", "error", err, "path", sess.path)
		return 1
	}
	return 0
}

// --- Main Application Entry Point ---

func main() {
	// Setup structured JSON logger for errors.
	logLevel := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	rootCmd, sess := newRootCmd(defaultEnv(logLevel))
	os.Exit(execute(rootCmd, sess))
}
