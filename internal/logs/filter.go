package logs

import (
	"encoding/json"
	"strings"

	"trackmatch/internal/logging"
)

// Filter selects JSON log records. Zero fields match everything.
type Filter struct {
	// RunID matches records whose run id starts with this value.
	RunID string
	// TrackKey matches records whose track key contains this value,
	// ignoring case.
	TrackKey string
	// MinLevel drops records below this level (debug, info, warn, error).
	MinLevel string
}

// IsZero reports whether the filter accepts every line.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.RunID) == "" &&
		strings.TrimSpace(f.TrackKey) == "" &&
		strings.TrimSpace(f.MinLevel) == ""
}

type record struct {
	Level    string `json:"level"`
	RunID    string `json:"run_id"`
	TrackKey string `json:"track_key"`
}

// Match reports whether line passes the filter. Lines that are not JSON
// records only pass a zero filter.
func (f Filter) Match(line string) bool {
	if f.IsZero() {
		return true
	}
	var rec record
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return false
	}
	if runID := strings.TrimSpace(f.RunID); runID != "" && !strings.HasPrefix(rec.RunID, runID) {
		return false
	}
	if key := strings.ToLower(strings.TrimSpace(f.TrackKey)); key != "" &&
		!strings.Contains(strings.ToLower(rec.TrackKey), key) {
		return false
	}
	if level := strings.TrimSpace(f.MinLevel); level != "" && levelRank(rec.Level) < levelRank(level) {
		return false
	}
	return true
}

func levelRank(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return 0
	case "warn", "warning":
		return 2
	case "error":
		return 3
	default:
		return 1
	}
}

// validLevel mirrors the levels the logger accepts.
func validLevel(level string) bool {
	return logging.ValidLevel(level)
}
