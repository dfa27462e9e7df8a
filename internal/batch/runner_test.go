package batch_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"trackmatch/internal/batch"
	"trackmatch/internal/catalog"
	"trackmatch/internal/matching"
	"trackmatch/internal/review"
	"trackmatch/internal/testsupport"
)

type stubSearch map[string][]matching.Candidate

var errUnreachable = errors.New("catalog unreachable")

func (s stubSearch) Search(_ context.Context, src matching.Track) ([]matching.Candidate, error) {
	if src.Title == "Delta" {
		return nil, errUnreachable
	}
	return s[src.Title], nil
}

func track(title, isrc string) matching.Track {
	return matching.Track{
		Title:      title,
		Artists:    []string{"The Band"},
		Album:      "First Album",
		DurationMS: 200000,
		ISRC:       isrc,
	}
}

func fixture() ([]matching.Track, stubSearch) {
	sources := []matching.Track{
		track("Alpha", "USABC1234567"),
		track("Beta", ""),
		track("Gamma", ""),
		track("Delta", ""),
	}
	search := stubSearch{
		"Alpha": {{Track: track("Alpha", "USABC1234567")}},
		"Beta":  {{Track: track("Beta", "")}},
	}
	return sources, search
}

func TestRunReportsOutcomesInOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	sources, search := fixture()

	runner, err := batch.NewRunner(matching.New(), search,
		batch.WithRecorder(store),
		batch.WithWorkers(3),
		batch.WithLockPath(cfg.Batch.LockPath),
	)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	report, err := runner.Run(context.Background(), sources)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(report.Outcomes) != len(sources) {
		t.Fatalf("outcomes = %d, want %d", len(report.Outcomes), len(sources))
	}
	for i, o := range report.Outcomes {
		if o.Index != i || o.Source.Title != sources[i].Title {
			t.Fatalf("outcome %d = %d/%q, want %d/%q", i, o.Index, o.Source.Title, i, sources[i].Title)
		}
		if o.RequestID == "" {
			t.Fatalf("outcome %d missing request id", i)
		}
	}

	alpha, beta, gamma, delta := report.Outcomes[0], report.Outcomes[1], report.Outcomes[2], report.Outcomes[3]
	if !alpha.Matched() || alpha.Method != batch.MethodISRC || alpha.Result.Rule != matching.RuleIdentifier {
		t.Fatalf("alpha = matched %v method %q rule %q, want identifier match", alpha.Matched(), alpha.Method, alpha.Result.Rule)
	}
	if !beta.Matched() || beta.Method != batch.MethodSearch {
		t.Fatalf("beta = matched %v method %q, want search match", beta.Matched(), beta.Method)
	}
	if gamma.Matched() || gamma.Assessment == nil || gamma.ReviewID == 0 {
		t.Fatalf("gamma = matched %v assessment %v review %d, want recorded decline", gamma.Matched(), gamma.Assessment, gamma.ReviewID)
	}
	if gamma.Result.Rule != matching.RuleNoCandidates {
		t.Fatalf("gamma rule = %q, want %q", gamma.Result.Rule, matching.RuleNoCandidates)
	}
	if delta.Error == "" || delta.Matched() {
		t.Fatalf("delta error = %q, want search failure", delta.Error)
	}

	s := report.Summary
	if s.Total != 4 || s.Matched != 2 || s.Declined != 1 || s.Failed != 1 || s.Recorded != 1 || s.ByIdentifier != 1 {
		t.Fatalf("summary = %+v", s)
	}
	if s.ByConfidence[matching.ConfidenceHigh] != 2 || s.ByConfidence[matching.ConfidenceNone] != 1 {
		t.Fatalf("by confidence = %v", s.ByConfidence)
	}

	entries, err := store.List(context.Background(), review.StatusPending)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("pending entries = %d, want 1", len(entries))
	}
	if entries[0].RunID != s.RunID || entries[0].TrackKey != "The Band - Gamma" {
		t.Fatalf("entry = run %q key %q, want run %q key %q", entries[0].RunID, entries[0].TrackKey, s.RunID, "The Band - Gamma")
	}
}

func TestRunWithoutRecorder(t *testing.T) {
	sources, search := fixture()
	runner, err := batch.NewRunner(matching.New(), search)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	report, err := runner.Run(context.Background(), sources[2:3])
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	o := report.Outcomes[0]
	if o.ReviewID != 0 || o.Assessment == nil {
		t.Fatalf("outcome = review %d assessment %v, want unrecorded assessment", o.ReviewID, o.Assessment)
	}
	if report.Summary.Recorded != 0 {
		t.Fatalf("recorded = %d, want 0", report.Summary.Recorded)
	}
}

func TestRunRejectsConcurrentBatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.MkdirAll(filepath.Dir(cfg.Batch.LockPath), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	held := flock.New(cfg.Batch.LockPath)
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock = %v, %v; want true, nil", ok, err)
	}
	t.Cleanup(func() { _ = held.Unlock() })

	_, search := fixture()
	runner, err := batch.NewRunner(matching.New(), search, batch.WithLockPath(cfg.Batch.LockPath))
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	_, err = runner.Run(context.Background(), []matching.Track{track("Beta", "")})
	if !errors.Is(err, batch.ErrLocked) {
		t.Fatalf("Run error = %v, want ErrLocked", err)
	}
}

func TestRunReleasesLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "state", "locks", "batch.lock")
	_, search := fixture()
	runner, err := batch.NewRunner(matching.New(), search, batch.WithLockPath(lockPath))
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	for i := range 2 {
		if _, err := runner.Run(context.Background(), []matching.Track{track("Beta", "")}); err != nil {
			t.Fatalf("Run %d: %v", i, err)
		}
	}
	if _, err := os.Stat(lockPath); err != nil {
		t.Fatalf("lock file not created: %v", err)
	}
	held := flock.New(lockPath)
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock after run = %v, %v; want true, nil", ok, err)
	}
	_ = held.Unlock()
}

func TestRunCancelled(t *testing.T) {
	_, search := fixture()
	runner, err := batch.NewRunner(matching.New(), search)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Run(ctx, []matching.Track{track("Beta", ""), track("Gamma", "")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
}

func TestRunEmpty(t *testing.T) {
	runner, err := batch.NewRunner(matching.New(), stubSearch{})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	report, err := runner.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Summary.Total != 0 || len(report.Outcomes) != 0 || report.Summary.RunID == "" {
		t.Fatalf("summary = %+v", report.Summary)
	}
}

func TestRunAgainstCatalogIndex(t *testing.T) {
	var catalogTracks []matching.Track
	var sources []matching.Track
	for i := range 20 {
		title := fmt.Sprintf("Song Number %02d", i)
		catalogTracks = append(catalogTracks, track(title, ""))
		sources = append(sources, track(title, ""))
	}
	index := catalog.NewIndex(catalogTracks, 10)

	runner, err := batch.NewRunner(matching.New(), index, batch.WithWorkers(4))
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	report, err := runner.Run(context.Background(), sources)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, o := range report.Outcomes {
		if !o.Matched() {
			t.Fatalf("outcome %d declined: %s", i, o.Result.Reason)
		}
		if o.Result.Best.Title != sources[i].Title {
			t.Fatalf("outcome %d best = %q, want %q", i, o.Result.Best.Title, sources[i].Title)
		}
	}
}

func TestNewRunnerRequiresCollaborators(t *testing.T) {
	if _, err := batch.NewRunner(nil, stubSearch{}); err == nil {
		t.Fatal("expected error for nil matcher")
	}
	if _, err := batch.NewRunner(matching.New(), nil); err == nil {
		t.Fatal("expected error for nil search provider")
	}
}
