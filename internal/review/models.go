package review

import (
	"errors"
	"strings"
	"time"

	"trackmatch/internal/matching"
)

// Status represents the lifecycle of a review entry.
type Status string

const (
	StatusPending   Status = "pending"
	StatusResolved  Status = "resolved"
	StatusDismissed Status = "dismissed"
)

var allStatuses = []Status{StatusPending, StatusResolved, StatusDismissed}

// ErrNotFound is returned when no entry has the requested ID.
var ErrNotFound = errors.New("review entry not found")

// ErrNotPending is returned when resolving or dismissing a closed entry.
var ErrNotPending = errors.New("review entry is not pending")

// ParseStatus converts user input into a Status.
func ParseStatus(value string) (Status, bool) {
	candidate := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == candidate {
			return status, true
		}
	}
	return "", false
}

// AllStatuses returns every status in lifecycle order.
func AllStatuses() []Status {
	return append([]Status(nil), allStatuses...)
}

// Entry is a source track the matcher declined, kept for manual follow-up.
type Entry struct {
	ID                    int64                `json:"id"`
	TrackKey              string               `json:"track_key"`
	Source                matching.Track       `json:"source"`
	Reason                string               `json:"reason"`
	Rule                  string               `json:"rule,omitempty"`
	Verdict               string               `json:"verdict,omitempty"`
	UnavailableConfidence int                  `json:"unavailable_confidence"`
	Assessment            *matching.Assessment `json:"assessment,omitempty"`
	CandidateCount        int                  `json:"candidate_count"`
	RunID                 string               `json:"run_id,omitempty"`
	Status                Status               `json:"status"`
	Resolution            string               `json:"resolution,omitempty"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

// NewEntry builds a pending entry from a declined match and its optional
// unavailability assessment.
func NewEntry(src matching.Track, result matching.Result, assessment *matching.Assessment) Entry {
	entry := Entry{
		TrackKey:       matching.TrackKey(src),
		Source:         src,
		Reason:         result.Reason,
		Rule:           result.Rule,
		Assessment:     assessment,
		CandidateCount: len(result.Scores),
		Status:         StatusPending,
	}
	if assessment != nil {
		entry.UnavailableConfidence = assessment.Confidence
		entry.Verdict = assessment.Verdict()
	}
	if result.Reason == matching.ReasonManualSelection {
		entry.Verdict = matching.VerdictMultipleMatches
	}
	return entry
}

// Open reports whether the entry still awaits a decision.
func (e *Entry) Open() bool {
	return e != nil && e.Status == StatusPending
}
