package review_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"trackmatch/internal/matching"
	"trackmatch/internal/review"
	"trackmatch/internal/testsupport"
)

func declined(title string) review.Entry {
	src := matching.Track{Title: title, Artists: []string{"Adele"}, Album: "25", DurationMS: 295000}
	result := matching.Result{
		Confidence: matching.ConfidenceNone,
		Reason:     matching.ReasonManualSelection,
		Rule:       "decline",
		Scores:     make([]matching.MatchScore, 3),
	}
	assessment := &matching.Assessment{Confidence: 80, Reasons: []string{"album not found in target catalog"}}
	return review.NewEntry(src, result, assessment)
}

func TestAddAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	entry := declined("Hello")
	entry.RunID = "run-1"
	added, err := store.Add(ctx, entry)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if added.ID == 0 {
		t.Fatal("expected entry ID to be assigned")
	}

	got, err := store.Get(ctx, added.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.TrackKey != "Adele - Hello" || got.Source.Album != "25" {
		t.Fatalf("unexpected entry: %#v", got)
	}
	if got.Status != review.StatusPending || !got.Open() {
		t.Fatalf("status = %q, want pending", got.Status)
	}
	if got.Verdict != matching.VerdictMultipleMatches {
		t.Fatalf("verdict = %q, want %q", got.Verdict, matching.VerdictMultipleMatches)
	}
	if got.Assessment == nil || got.Assessment.Confidence != 80 || got.UnavailableConfidence != 80 {
		t.Fatalf("assessment not round-tripped: %#v", got.Assessment)
	}
	if got.CandidateCount != 3 || got.RunID != "run-1" {
		t.Fatalf("candidate count/run id = %d/%q", got.CandidateCount, got.RunID)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
}

func TestAddRefreshesPendingEntry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first, err := store.Add(ctx, declined("Hello"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	again := declined("Hello")
	again.Reason = matching.ReasonNoCandidates
	second, err := store.Add(ctx, again)
	if err != nil {
		t.Fatalf("second Add failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second Add ID = %d, want %d (refresh)", second.ID, first.ID)
	}
	if second.Reason != matching.ReasonNoCandidates {
		t.Fatalf("reason = %q, want refreshed value", second.Reason)
	}

	if err := store.Resolve(ctx, first.ID, "spotify:track:1"); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	third, err := store.Add(ctx, declined("Hello"))
	if err != nil {
		t.Fatalf("third Add failed: %v", err)
	}
	if third.ID == first.ID {
		t.Fatal("expected a new entry once the previous one was resolved")
	}
}

func TestAddRequiresTrackKey(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if _, err := store.Add(context.Background(), review.Entry{}); err == nil {
		t.Fatal("expected error for empty track key")
	}
}

func TestGetMissingReturnsErrNotFound(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if _, err := store.Get(context.Background(), 42); !errors.Is(err, review.ErrNotFound) {
		t.Fatalf("Get error = %v, want ErrNotFound", err)
	}
}

func TestResolveAndDismissTransitions(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	a, _ := store.Add(ctx, declined("Hello"))
	b, _ := store.Add(ctx, declined("Skyfall"))

	if err := store.Resolve(ctx, a.ID, "  target-1  "); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if err := store.Dismiss(ctx, b.ID, "not on the service"); err != nil {
		t.Fatalf("Dismiss failed: %v", err)
	}

	got, _ := store.Get(ctx, a.ID)
	if got.Status != review.StatusResolved || got.Resolution != "target-1" {
		t.Fatalf("resolved entry = %q/%q", got.Status, got.Resolution)
	}
	if err := store.Resolve(ctx, a.ID, "again"); !errors.Is(err, review.ErrNotPending) {
		t.Fatalf("Resolve(closed) error = %v, want ErrNotPending", err)
	}
	if err := store.Dismiss(ctx, 999, ""); !errors.Is(err, review.ErrNotFound) {
		t.Fatalf("Dismiss(missing) error = %v, want ErrNotFound", err)
	}
}

func TestListStatsAndClear(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	titles := []string{"Hello", "Skyfall", "Someone Like You"}
	var ids []int64
	for _, title := range titles {
		entry, err := store.Add(ctx, declined(title))
		if err != nil {
			t.Fatalf("Add(%s) failed: %v", title, err)
		}
		ids = append(ids, entry.ID)
	}
	if err := store.Dismiss(ctx, ids[1], ""); err != nil {
		t.Fatalf("Dismiss failed: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != ids[0] || all[2].ID != ids[2] {
		t.Fatalf("List() returned %d entries in unexpected order", len(all))
	}
	pending, err := store.List(ctx, review.StatusPending)
	if err != nil {
		t.Fatalf("List(pending) failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("List(pending) = %d entries, want 2", len(pending))
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	want := map[review.Status]int{review.StatusPending: 2, review.StatusDismissed: 1, review.StatusResolved: 0}
	for status, count := range want {
		if stats[status] != count {
			t.Fatalf("Stats()[%s] = %d, want %d", status, stats[status], count)
		}
	}

	removed, err := store.Clear(ctx, review.StatusDismissed)
	if err != nil {
		t.Fatalf("Clear(dismissed) failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("Clear(dismissed) removed %d, want 1", removed)
	}
	removed, err = store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("Clear() removed %d, want 2", removed)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	store.Close()

	db, err := sql.Open("sqlite", cfg.Review.DBPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := review.Open(cfg); !errors.Is(err, review.ErrSchemaMismatch) {
		t.Fatalf("Open error = %v, want ErrSchemaMismatch", err)
	}
}

func TestCheckHealth(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	if _, err := store.Add(ctx, declined("Hello")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	health, err := store.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.IntegrityCheck || health.TotalEntries != 1 || health.SchemaVersion != 1 {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   review.Status
		wantOK bool
	}{
		{"pending", review.StatusPending, true},
		{" Resolved ", review.StatusResolved, true},
		{"DISMISSED", review.StatusDismissed, true},
		{"done", "", false},
	}
	for _, tt := range tests {
		got, ok := review.ParseStatus(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNewEntryVerdictFromAssessment(t *testing.T) {
	src := matching.Track{Title: "Hello", Artists: []string{"Adele"}}
	result := matching.Result{Confidence: matching.ConfidenceNone, Reason: matching.ReasonNoCandidates, Rule: "no_candidates"}

	entry := review.NewEntry(src, result, &matching.Assessment{Confidence: 100})
	if entry.Verdict != matching.VerdictAlbumNotAvailable {
		t.Fatalf("verdict = %q, want %q", entry.Verdict, matching.VerdictAlbumNotAvailable)
	}
	entry = review.NewEntry(src, result, nil)
	if entry.Verdict != "" || entry.Assessment != nil {
		t.Fatalf("entry without assessment = %+v", entry)
	}
}
