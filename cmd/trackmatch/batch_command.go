package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"trackmatch/internal/batch"
	"trackmatch/internal/catalog"
	"trackmatch/internal/preflight"
	"trackmatch/internal/review"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var workers int
	var jsonOutput bool
	var noRecord bool
	var skipCheck bool

	cmd := &cobra.Command{
		Use:   "batch <sources-file>",
		Short: "Match every source track in a file against the catalog",
		Long: `Match every source track in a JSON, JSONL or YAML file against the
configured catalog. Declined tracks are recorded in the review store unless
--no-record is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !skipCheck {
				if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg)); len(failed) > 0 {
					parts := make([]string, 0, len(failed))
					for _, f := range failed {
						parts = append(parts, f.Name+": "+f.Detail)
					}
					return fmt.Errorf("preflight failed: %s", strings.Join(parts, "; "))
				}
			}

			sources, err := catalog.LoadSources(args[0])
			if err != nil {
				return fmt.Errorf("load sources: %w", err)
			}
			set, err := ctx.loadCatalog()
			if err != nil {
				return err
			}
			matcher, err := ctx.newMatcher()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if workers <= 0 {
				workers = cfg.Batch.Workers
			}
			opts := []batch.Option{
				batch.WithAlbums(set.albums),
				batch.WithWorkers(workers),
				batch.WithLockPath(cfg.Batch.LockPath),
				batch.WithLogger(logger),
			}
			run := func(extra ...batch.Option) (*batch.Report, error) {
				runner, err := batch.NewRunner(matcher, set.index, append(opts, extra...)...)
				if err != nil {
					return nil, err
				}
				return runner.Run(cmd.Context(), sources)
			}

			var report *batch.Report
			if cfg.Review.Enabled && !noRecord {
				err = ctx.withStore(func(store *review.Store) error {
					var runErr error
					report, runErr = run(batch.WithRecorder(store))
					return runErr
				})
			} else {
				report, err = run()
			}
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, report)
			}
			printBatchReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent workers (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "Do not record declined tracks in the review store")
	cmd.Flags().BoolVar(&skipCheck, "skip-check", false, "Skip preflight checks")
	return cmd
}

func printBatchReport(out io.Writer, report *batch.Report) {
	colorize := shouldColorize(out)
	rows := make([][]string, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		decision, detail := "declined", ""
		kind := statusWarn
		switch {
		case o.Error != "":
			decision, detail, kind = "failed", o.Error, statusError
		case o.Result.Matched():
			decision, kind = "matched", confidenceKind(o.Result.Confidence)
			detail = trackLabel(o.Result.Best.Track)
		case o.Assessment != nil:
			detail = fmt.Sprintf("%s (%d%%)", o.Assessment.Verdict(), o.Assessment.Confidence)
			if o.ReviewID != 0 {
				detail += fmt.Sprintf(" review #%d", o.ReviewID)
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(o.Index + 1),
			trackLabel(o.Source),
			paint(decision, kind, colorize),
			tierLabel(o.Result.Confidence),
			orDash(o.Result.Rule),
			orDash(o.Method),
			detail,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Source", "Decision", "Tier", "Rule", "Method", "Detail"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	))

	s := report.Summary
	fmt.Fprintf(out, "Run %s: %d tracks, %d matched (%d by ISRC), %d declined, %d failed, %d recorded in %s\n",
		s.RunID, s.Total, s.Matched, s.ByIdentifier, s.Declined, s.Failed, s.Recorded, s.Elapsed.Round(time.Millisecond))
}
