package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var flags trackFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "List catalog candidates for a source track",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := flags.track()
			if err != nil {
				return err
			}
			set, err := ctx.loadCatalog()
			if err != nil {
				return err
			}
			hits, err := set.index.SearchScored(cmd.Context(), src)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, hits)
			}

			out := cmd.OutOrStdout()
			if len(hits) == 0 {
				fmt.Fprintf(out, "No candidates in %d catalog entries\n", set.index.Len())
				return nil
			}
			rows := make([][]string, 0, len(hits))
			for i, hit := range hits {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					orDash(hit.Candidate.ID),
					trackLabel(hit.Candidate.Track),
					formatDuration(hit.Candidate.DurationMS),
					formatScore(hit.Score),
					yesNo(hit.Identifier),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "ID", "Candidate", "Duration", "Score", "ISRC"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
