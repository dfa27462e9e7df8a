// Package matching decides which candidate from a target catalog search, if
// any, is the same recording as a source track.
//
// The pipeline is: an identifier and exact-match fast path over the raw
// candidates, a version-aware candidate filter, a weighted multi-factor
// scorer, and an ordered rule table that either selects a candidate at a
// confidence tier or declines. When it declines, AssessUnavailability
// estimates how likely the track is to be missing from the target catalog and
// explains the closest candidates for manual review.
//
// Everything here is pure and deterministic: a Matcher holds no mutable
// state, performs no I/O and may be shared across goroutines. Collaborators
// that fetch candidates or check album existence plug in through the
// SearchProvider and AlbumValidator interfaces.
package matching
