// Package review persists tracks the matcher declined so an operator can
// follow up on them later.
//
// Entries live in a single SQLite table (modernc.org/sqlite, no cgo) with an
// embedded schema and a version check on open; a mismatched database must be
// cleared rather than migrated. Each entry carries the source track, the
// decline reason and, when one was computed, the unavailability assessment.
// At most one pending entry exists per track key, so re-running a batch
// refreshes entries instead of piling up duplicates. Writes retry with
// backoff while another process holds the SQLite write lock.
package review
