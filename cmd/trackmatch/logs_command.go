package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trackmatch/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var filter logs.Filter

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show records from the JSON log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.Logging.File
			if path == "" {
				return errors.New("no log file configured; set [logging].file")
			}

			out := cmd.OutOrStdout()
			opts := logs.Options{Offset: -1, Limit: lines, Filter: filter}
			for {
				result, err := logs.Tail(cmd.Context(), path, opts)
				if err != nil {
					return err
				}
				for _, line := range result.Lines {
					fmt.Fprintln(out, line)
				}
				if !follow {
					return nil
				}
				opts = logs.Options{Offset: result.Offset, Follow: true, Wait: 5 * time.Second, Filter: filter}
			}
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of records to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new records")
	cmd.Flags().StringVar(&filter.RunID, "run", "", "Only records from this run (id or prefix)")
	cmd.Flags().StringVar(&filter.TrackKey, "track", "", "Only records whose track key contains this text")
	cmd.Flags().StringVar(&filter.MinLevel, "level", "", "Minimum level (debug, info, warn, error)")
	return cmd
}
