// Package catalog loads local track catalogs and serves them to the matcher.
//
// Catalogs, album indexes and match requests are JSON or YAML files; batch
// sources may also be JSON lines. Index implements matching.SearchProvider
// with TF-IDF token fingerprints, and AlbumIndex implements
// matching.AlbumValidator for the unavailability assessment.
package catalog
