// Package logging assembles structured slog loggers and formatting helpers used
// across trackmatch.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, tees records into a size-rotated JSON file when one is configured,
// and exposes context-aware helpers so batch code can tag log lines with run
// IDs, per-track correlation IDs and track keys. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging
