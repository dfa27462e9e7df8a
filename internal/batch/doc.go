// Package batch matches a list of source tracks against a search provider
// with a bounded worker pool.
//
// A run acquires an exclusive file lock so only one batch writes the review
// store at a time, tags every track's context with the run id and a per-track
// request id, and records declined tracks with their unavailability
// assessment. Outcomes are returned in input order regardless of which worker
// finished first.
package batch
