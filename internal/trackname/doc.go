// Package trackname canonicalizes track titles and tags their version
// semantics.
//
// Parse splits a title into a normalized base title and the first
// parenthesized version string, then classifies that version (remix, radio
// edit, extended, variation). Clean produces the coarse form used by the
// exact-match fast path, with featuring credits and mix/edit suffixes removed.
// Detect tags a title or album with independent boolean traits (live,
// acoustic, instrumental and so on) for candidate filtering and for the
// difference labels shown during manual review.
//
// All functions are keyword heuristics over fixed tables compiled at init;
// they never fail and never consult external state.
package trackname
