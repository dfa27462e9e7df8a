package testsupport

import (
	"testing"

	"trackmatch/internal/config"
	"trackmatch/internal/review"
)

// MustOpenStore opens a review.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *review.Store {
	t.Helper()

	store, err := review.Open(cfg)
	if err != nil {
		t.Fatalf("review.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
