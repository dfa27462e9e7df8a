package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trackmatch/internal/matching"
	"trackmatch/internal/review"
)

type matchOutput struct {
	Source     matching.Track       `json:"source"`
	Result     matching.Result      `json:"result"`
	Assessment *matching.Assessment `json:"assessment,omitempty"`
	ReviewID   int64                `json:"review_id,omitempty"`
}

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var flags trackFlags
	var jsonOutput bool
	var record bool

	cmd := &cobra.Command{
		Use:   "match [request-file]",
		Short: "Match one source track against its candidates",
		Long: `Match one source track against its candidates.

With a request file (JSON or YAML with "source" and "candidates") the listed
candidates are scored as given. Without one, the source is described by flags
and candidates come from the configured catalog.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := resolveRequest(cmd.Context(), ctx, args, &flags)
			if err != nil {
				return err
			}
			matcher, err := ctx.newMatcher()
			if err != nil {
				return err
			}

			out := matchOutput{Source: req.Source}
			out.Result = matcher.Match(req.Source, req.Candidates)
			if !out.Result.Matched() {
				validator, err := ctx.albumValidator()
				if err != nil {
					return err
				}
				assessment := matcher.AssessWith(cmd.Context(), validator, req.Source, req.Candidates)
				out.Assessment = &assessment

				if record {
					err := ctx.withStore(func(store *review.Store) error {
						saved, err := store.Add(cmd.Context(), review.NewEntry(req.Source, out.Result, out.Assessment))
						if err != nil {
							return err
						}
						out.ReviewID = saved.ID
						return nil
					})
					if err != nil {
						return err
					}
				}
			}

			if jsonOutput {
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			colorize := shouldColorize(w)
			printResult(w, out.Source, out.Result, colorize)
			if out.Assessment != nil {
				printAssessment(w, *out.Assessment, colorize)
			}
			if out.ReviewID != 0 {
				fmt.Fprintf(w, "Recorded review entry %d\n", out.ReviewID)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&record, "record", false, "Record a declined match in the review store")
	return cmd
}

func newAssessCommand(ctx *commandContext) *cobra.Command {
	var flags trackFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "assess [request-file]",
		Short: "Estimate whether a source track is missing from the target catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := resolveRequest(cmd.Context(), ctx, args, &flags)
			if err != nil {
				return err
			}
			matcher, err := ctx.newMatcher()
			if err != nil {
				return err
			}
			validator, err := ctx.albumValidator()
			if err != nil {
				return err
			}
			assessment := matcher.AssessWith(cmd.Context(), validator, req.Source, req.Candidates)

			if jsonOutput {
				return writeJSON(cmd, struct {
					matching.Assessment
					Verdict string `json:"verdict"`
				}{assessment, assessment.Verdict()})
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Source:     %s (%s)\n", trackLabel(req.Source), formatDuration(req.Source.DurationMS))
			printAssessment(w, assessment, shouldColorize(w))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
