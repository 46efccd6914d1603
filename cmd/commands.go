package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryan-cox/jotledger/internal/model"
	"github.com/bryan-cox/jotledger/internal/prompt"
	"github.com/bryan-cox/jotledger/internal/report"
)

func newViewCmd(e *env, sess *session) *cobra.Command {
	var (
		date   string
		states []string
		copyIt bool
	)

	cmd := &cobra.Command{
		Use:         "view",
		Short:       "View the jots in the current set.",
		Long:        `Prints the current set, or with --date the set whose interval contains that date. Each jot is numbered by its position in the set; 'update --index' takes the same numbers. --state limits the output to jots in the given states and may be repeated.`,
		Args:        cobra.NoArgs,
		Annotations: historyCmd(),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseStates(states)
			if err != nil {
				return err
			}

			set := sess.history.Current()
			if date != "" {
				d, err := model.ParseDate(date)
				if err != nil {
					return err
				}
				found, ok := sess.history.FindByDate(d)
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), report.TextNoSetForDate)
					return nil
				}
				set = found
			}

			filtered := set.FilterByStates(filter)
			out := cmd.OutOrStdout()
			report.PrintNumberedSet(out, set, filter)
			report.PrintSummary(out, report.Summarize(filtered))

			if copyIt {
				if err := e.copyText(report.RenderSet(filtered)); err != nil {
					slog.Warn("could not copy to clipboard", "error", err)
				} else {
					cmd.PrintErrln("Copied to clipboard.")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Show the set containing this date (YYYY-MM-DD).")
	cmd.Flags().StringSliceVarP(&states, "state", "s", nil, "Only show jots in this state (repeatable).")
	cmd.Flags().BoolVar(&copyIt, "copy", false, "Also copy the output to the clipboard.")
	return cmd
}

func newViewHistoryCmd(e *env, sess *session) *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:         "view-history",
		Short:       "Pick a past interval and view its set.",
		Long:        `Lists every interval, oldest first and numbered from 1, then prints the chosen set. --index picks the interval by its number instead of prompting. Skipping the prompt prints only the list.`,
		Args:        cobra.NoArgs,
		Annotations: historyCmd(),
		RunE: func(cmd *cobra.Command, args []string) error {
			intervals := sess.history.DateIntervals()

			i := index - 1
			if index == 0 {
				report.PrintIntervals(cmd.OutOrStdout(), intervals)
				options := make([]string, len(intervals))
				for n, iv := range intervals {
					options[n] = iv.String()
				}
				selected, err := e.prompt.Select("Select a date interval to view", options)
				if errors.Is(err, prompt.ErrSkipped) {
					return nil
				}
				if err != nil {
					return fmt.Errorf("select interval: %w", err)
				}
				i = selected
			}

			set, err := sess.history.Set(i)
			if err != nil {
				return fmt.Errorf("interval %d: %w", index, err)
			}
			report.PrintSet(cmd.OutOrStdout(), set)
			return nil
		},
	}

	cmd.Flags().IntVarP(&index, "index", "i", 0, "1-based position of the interval to show.")
	return cmd
}

func newNewCmd(e *env, sess *session) *cobra.Command {
	var jotText, state string

	cmd := &cobra.Command{
		Use:         "new",
		Short:       "Add a jot to the current set.",
		Long:        `Adds a jot to the current set. Missing --jot or --state values are asked for interactively; skipping the state prompt uses the configured default state.`,
		Args:        cobra.NoArgs,
		Annotations: historyCmd(),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := jotText
			if content == "" {
				text, err := e.prompt.Text("Enter jot", "")
				if err != nil {
					return fmt.Errorf("enter jot: %w", err)
				}
				content = text
			}

			st, err := resolveState(e, sess, state)
			if err != nil {
				return err
			}

			jot := model.Jot{Content: content, State: st}
			sess.history.Insert(jot)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", jot)
			return nil
		},
	}

	cmd.Flags().StringVarP(&jotText, "jot", "j", "", "Text of the jot.")
	cmd.Flags().StringVarP(&state, "state", "s", "", "State of the jot.")
	return cmd
}

func newUpdateCmd(e *env, sess *session) *cobra.Command {
	var (
		jotText, state string
		index          int
	)

	cmd := &cobra.Command{
		Use:         "update",
		Short:       "Change the text or state of a jot in the current set.",
		Long:        `Select a jot in the current set and replace its text and state. --index picks the jot by its 1-based position as shown by 'view'.`,
		Args:        cobra.NoArgs,
		Annotations: historyCmd(),
		RunE: func(cmd *cobra.Command, args []string) error {
			current := sess.history.Current()

			var selected model.Jot
			if index != 0 {
				i := index - 1
				if i < 0 || i >= len(current.Jots) {
					return fmt.Errorf("jot %d: %w (current set has %d jots)", index, model.ErrIndexOutOfRange, len(current.Jots))
				}
				selected = current.Jots[i]
			} else {
				if len(current.Jots) == 0 {
					return errors.New("the current set has no jots to update")
				}
				options := make([]string, len(current.Jots))
				for n, j := range current.Jots {
					options[n] = j.String()
				}
				i, err := e.prompt.Select("Select a jot to modify", options)
				if err != nil {
					return fmt.Errorf("select jot: %w", err)
				}
				selected = current.Jots[i]
			}

			content := jotText
			if content == "" {
				text, err := e.prompt.Text("Provide new jot message", selected.Content)
				if err != nil {
					return fmt.Errorf("enter jot: %w", err)
				}
				content = text
			}

			st, err := resolveState(e, sess, state)
			if err != nil {
				return err
			}

			updated := model.Jot{Content: content, State: st}
			if index != 0 {
				err = sess.history.ReplaceJot(updated, index-1)
			} else {
				_, err = sess.history.UpdateJot(selected, updated)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s -> %s\n", selected, updated)
			return nil
		},
	}

	cmd.Flags().StringVarP(&jotText, "jot", "j", "", "New text of the jot.")
	cmd.Flags().StringVarP(&state, "state", "s", "", "New state of the jot.")
	cmd.Flags().IntVarP(&index, "index", "i", 0, "1-based position of the jot to update.")
	return cmd
}

func newDeleteCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:         "delete",
		Short:       "Delete jots from the current set (not implemented).",
		Args:        cobra.NoArgs,
		Annotations: historyCmd(),
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Warn("delete is not implemented, no jots were changed", "path", sess.path)
			return nil
		},
	}
}

func newRollCmd(e *env, sess *session) *cobra.Command {
	return &cobra.Command{
		Use:         "roll",
		Short:       "Close the current set and carry unfinished jots into a new one.",
		Long:        `Closes the current set as of today and opens a new set starting today. Jots that are not Completed, Removed or Failed move into the new set with their state unchanged.`,
		Args:        cobra.NoArgs,
		Annotations: historyCmd(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sess.history.Roll(e.today()); err != nil {
				return err
			}
			archived, err := sess.history.Set(sess.history.Len() - 2)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			report.PrintRollResult(out, archived)
			report.PrintSet(out, sess.history.Current())
			return nil
		},
	}
}

// --- Helper Functions ---

func parseStates(names []string) ([]model.JotState, error) {
	var states []model.JotState
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		st, err := model.ParseJotState(name)
		if err != nil {
			return nil, err
		}
		states = append(states, st)
	}
	return states, nil
}

// resolveState parses the --state flag, or prompts for a state when it is
// empty. A skipped prompt yields the configured default.
func resolveState(e *env, sess *session, flagVal string) (model.JotState, error) {
	if flagVal != "" {
		return model.ParseJotState(flagVal)
	}

	options := make([]string, len(model.AllStates))
	for i, st := range model.AllStates {
		options[i] = st.Label()
	}
	i, err := e.prompt.Select("Enter jot state", options)
	if errors.Is(err, prompt.ErrSkipped) {
		return sess.cfg.DefaultState, nil
	}
	if err != nil {
		return "", fmt.Errorf("enter jot state: %w", err)
	}
	return model.AllStates[i], nil
}
