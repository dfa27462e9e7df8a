// Package preflight provides readiness checks for the filesystem paths,
// catalog files and review database that trackmatch depends on.
//
// These checks run in two contexts:
//   - The CLI "trackmatch check" command runs RunAll and prints one row per
//     check.
//   - The batch command calls RunAll before matching so a broken catalog or
//     review database fails fast instead of after every track was scored.
//
// Each check is gated by its config toggle -- unconfigured features are skipped.
package preflight
