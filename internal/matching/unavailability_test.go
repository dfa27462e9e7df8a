package matching

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
)

func TestAssessNoCandidates(t *testing.T) {
	src := Track{Title: "Hello", Artists: []string{"Adele"}, Album: "25", DurationMS: 295000}

	a := New().AssessUnavailability(src, nil, false)
	if a.Confidence != 100 {
		t.Fatalf("Confidence = %d, want 100", a.Confidence)
	}
	if len(a.Reasons) != 4 {
		t.Fatalf("Reasons = %v, want 4 entries", a.Reasons)
	}
	if a.Reasons[0] != `Album "25" not found in artist's discography` {
		t.Fatalf("Reasons[0] = %q", a.Reasons[0])
	}
	if a.Verdict() != VerdictAlbumNotAvailable {
		t.Fatalf("Verdict = %q, want %q", a.Verdict(), VerdictAlbumNotAvailable)
	}
	if len(a.Closest) != 0 {
		t.Fatalf("Closest = %v, want empty", a.Closest)
	}

	found := New().AssessUnavailability(src, nil, true)
	if found.Confidence != 60 || found.Verdict() != VerdictNotFound {
		t.Fatalf("Confidence/Verdict = %d/%s, want 60/not_found", found.Confidence, found.Verdict())
	}
}

func TestAssessMostlyOtherArtists(t *testing.T) {
	src := Track{Title: "Hello", Artists: []string{"Adele"}, Album: "25", DurationMS: 295000}
	cands := []Candidate{{Track: Track{ID: "adele", Title: "Hello", Artists: []string{"Adele"}, DurationMS: 295000}}}
	for i := range 5 {
		cands = append(cands, Candidate{Track: Track{
			ID:         fmt.Sprintf("other-%d", i),
			Title:      "Hello",
			Artists:    []string{"Lionel Richie"},
			DurationMS: 295000,
		}})
	}

	a := New().AssessUnavailability(src, cands, true)
	if a.Confidence != 20 {
		t.Fatalf("Confidence = %d, want 20 (reasons %v)", a.Confidence, a.Reasons)
	}
	if !slices.Equal(a.Reasons, []string{"Most results are from different artists"}) {
		t.Fatalf("Reasons = %v", a.Reasons)
	}
	if len(a.Closest) != 5 || a.Closest[0].Candidate.ID != "adele" {
		t.Fatalf("Closest = %+v, want 5 entries led by adele", a.Closest)
	}
}

func TestAssessClosestDifferences(t *testing.T) {
	src := Track{Title: "Hello", Artists: []string{"Adele"}, Album: "25", DurationMS: 295000}
	live := Candidate{Track: Track{
		ID:         "live",
		Title:      "Hello (Live)",
		Artists:    []string{"Adele"},
		Album:      "Live at the Royal Albert Hall",
		DurationMS: 310000,
	}}

	a := New().AssessUnavailability(src, []Candidate{live}, true)
	if len(a.Closest) != 1 {
		t.Fatalf("Closest = %+v, want 1 entry", a.Closest)
	}
	got := a.Closest[0]
	if got.Similarity != 60 {
		t.Fatalf("Similarity = %d, want 60", got.Similarity)
	}
	want := []string{
		"Live version",
		`Different album: "Live at the Royal Albert Hall"`,
		"Duration differs by 15s",
	}
	if !slices.Equal(got.Differences, want) {
		t.Fatalf("Differences = %q, want %q", got.Differences, want)
	}
}

func TestAssessVeryDifferentDuration(t *testing.T) {
	src := Track{Title: "Hello", Artists: []string{"Adele"}, Album: "25", DurationMS: 295000}
	c := Candidate{Track: Track{ID: "a", Title: "Goodbye", Artists: []string{"Metallica"}, Album: "25", DurationMS: 400000}}

	a := New().AssessUnavailability(src, []Candidate{c}, true)
	diffs := a.Closest[0].Differences
	if !slices.Contains(diffs, "Different artist: Metallica") {
		t.Fatalf("Differences = %q, want different artist", diffs)
	}
	if !slices.Contains(diffs, `Different title: "Goodbye"`) {
		t.Fatalf("Differences = %q, want different title", diffs)
	}
	if !slices.Contains(diffs, "Very different duration (105s difference)") {
		t.Fatalf("Differences = %q, want duration gap", diffs)
	}
}

type stubValidator struct {
	found bool
	err   error
	calls int
}

func (s *stubValidator) Exists(context.Context, string, string) (bool, error) {
	s.calls++
	return s.found, s.err
}

func TestAssessWithValidator(t *testing.T) {
	src := Track{Title: "Hello", Artists: []string{"Adele"}, Album: "25", DurationMS: 295000}
	m := New()

	missing := &stubValidator{found: false}
	if got := m.AssessWith(context.Background(), missing, src, nil).Confidence; got != 100 {
		t.Fatalf("missing album confidence = %d, want 100", got)
	}

	failing := &stubValidator{err: errors.New("index unavailable")}
	if got := m.AssessWith(context.Background(), failing, src, nil).Confidence; got != 60 {
		t.Fatalf("validator error confidence = %d, want 60", got)
	}
	if failing.calls != 1 {
		t.Fatalf("validator calls = %d, want 1", failing.calls)
	}

	if got := m.AssessWith(context.Background(), nil, src, nil).Confidence; got != 60 {
		t.Fatalf("nil validator confidence = %d, want 60", got)
	}
}
