// Package textutil provides text canonicalization and similarity primitives
// shared by the matching engine and the local catalog.
//
// The primary use cases are:
//   - Normalizing titles, artist credits and album names for comparison
//   - Edit-distance similarity in [0,1] between normalized strings
//   - Token fingerprints with TF-IDF weighting for coarse catalog search
//
// Every function here is pure and deterministic. Normalization folds case,
// composition, typographic punctuation and diacritics so that two spellings of
// the same credit compare equal before any distance is computed.
package textutil
