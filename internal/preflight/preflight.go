package preflight

import (
	"context"

	"trackmatch/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Data directory (always checked)
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))

	// Log directory (only when logging to a file)
	if cfg.Logging.File != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	results = append(results, CheckWeights("Weights", cfg.Weights()))

	if cfg.Catalog.Path != "" {
		results = append(results, CheckCatalog("Catalog", cfg.Catalog.Path))
	}
	if cfg.Catalog.AlbumsPath != "" {
		results = append(results, CheckAlbums("Album index", cfg.Catalog.AlbumsPath))
	}

	if cfg.Review.Enabled {
		results = append(results, CheckReviewStore(ctx, cfg))
	}

	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
