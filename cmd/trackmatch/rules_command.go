package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"trackmatch/internal/matching"
)

func newRulesCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "rules",
		Short:       "List the decision rules in evaluation order",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := matching.Rules()
			if jsonOutput {
				return writeJSON(cmd, rules)
			}
			rows := make([][]string, 0, len(rules))
			for _, r := range rules {
				rows = append(rows, []string{strconv.Itoa(r.Order), r.Name, r.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Rule", "Description"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
