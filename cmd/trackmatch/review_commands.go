package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"trackmatch/internal/review"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Inspect and resolve tracks the matcher declined",
	}

	reviewCmd.AddCommand(newReviewListCommand(ctx))
	reviewCmd.AddCommand(newReviewShowCommand(ctx))
	reviewCmd.AddCommand(newReviewResolveCommand(ctx))
	reviewCmd.AddCommand(newReviewDismissCommand(ctx))
	reviewCmd.AddCommand(newReviewClearCommand(ctx))
	reviewCmd.AddCommand(newReviewStatsCommand(ctx))

	return reviewCmd
}

func parseStatuses(values []string) ([]review.Status, error) {
	statuses := make([]review.Status, 0, len(values))
	for _, value := range values {
		status, ok := review.ParseStatus(value)
		if !ok {
			return nil, fmt.Errorf("unknown status %q", value)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func newReviewListCommand(ctx *commandContext) *cobra.Command {
	var statusFlags []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List review entries (pending by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(statusFlags) == 0 {
				statusFlags = []string{string(review.StatusPending)}
			}
			statuses, err := parseStatuses(statusFlags)
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *review.Store) error {
				entries, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if jsonOutput {
					if entries == nil {
						entries = []*review.Entry{}
					}
					return writeJSON(cmd, entries)
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No review entries")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						strconv.FormatInt(e.ID, 10),
						e.TrackKey,
						string(e.Status),
						orDash(e.Verdict),
						strconv.Itoa(e.UnavailableConfidence) + "%",
						strconv.Itoa(e.CandidateCount),
						e.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Track", "Status", "Verdict", "Unavailable", "Candidates", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&statusFlags, "status", "s", nil, "Filter by status (pending, resolved, dismissed)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newReviewShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one review entry with its assessment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *review.Store) error {
				entry, err := store.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, entry)
				}
				printEntry(cmd.OutOrStdout(), entry)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func printEntry(out io.Writer, e *review.Entry) {
	colorize := shouldColorize(out)
	fmt.Fprintf(out, "Entry:      %d\n", e.ID)
	fmt.Fprintf(out, "Track:      %s (%s)\n", trackLabel(e.Source), formatDuration(e.Source.DurationMS))
	fmt.Fprintf(out, "Status:     %s\n", e.Status)
	if e.Resolution != "" {
		fmt.Fprintf(out, "Resolution: %s\n", e.Resolution)
	}
	fmt.Fprintf(out, "Reason:     %s\n", orDash(e.Reason))
	fmt.Fprintf(out, "Rule:       %s\n", orDash(e.Rule))
	fmt.Fprintf(out, "Candidates: %d\n", e.CandidateCount)
	fmt.Fprintf(out, "Run:        %s\n", orDash(e.RunID))
	fmt.Fprintf(out, "Created:    %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	if e.Assessment != nil {
		printAssessment(out, *e.Assessment, colorize)
	}
}

func newReviewResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id> <resolution>",
		Short: "Mark a pending entry resolved, typically with the chosen track ID",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			resolution := strings.TrimSpace(strings.Join(args[1:], " "))
			if resolution == "" {
				return errors.New("resolution is required")
			}
			return ctx.withStore(func(store *review.Store) error {
				if err := store.Resolve(cmd.Context(), id, resolution); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Entry %d resolved\n", id)
				return nil
			})
		},
	}
}

func newReviewDismissCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <id> [note]",
		Short: "Close a pending entry without a match",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			note := strings.Join(args[1:], " ")
			return ctx.withStore(func(store *review.Store) error {
				if err := store.Dismiss(cmd.Context(), id, note); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Entry %d dismissed\n", id)
				return nil
			})
		},
	}
}

func newReviewClearCommand(ctx *commandContext) *cobra.Command {
	var statusFlags []string
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete closed review entries",
		Long: `Delete review entries. Without flags, resolved and dismissed entries are
removed; --status narrows the set and --all removes everything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all && len(statusFlags) > 0 {
				return errors.New("--all and --status are mutually exclusive")
			}
			var statuses []review.Status
			switch {
			case all:
			case len(statusFlags) > 0:
				parsed, err := parseStatuses(statusFlags)
				if err != nil {
					return err
				}
				statuses = parsed
			default:
				statuses = []review.Status{review.StatusResolved, review.StatusDismissed}
			}
			return ctx.withStore(func(store *review.Store) error {
				removed, err := store.Clear(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d review entries\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&statusFlags, "status", "s", nil, "Only remove entries with these statuses")
	cmd.Flags().BoolVar(&all, "all", false, "Remove every entry, including pending ones")
	return cmd
}

func newReviewStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count review entries by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *review.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(stats))
				for _, status := range review.AllStatuses() {
					rows = append(rows, []string{string(status), strconv.Itoa(stats[status])})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Status", "Entries"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}
