package review

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trackmatch/internal/matching"
)

const entryColumns = "id, track_key, source_json, reason, rule, verdict, unavailable_confidence, assessment_json, candidate_count, run_id, status, resolution, created_at, updated_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		id             int64
		trackKey       string
		sourceJSON     string
		reason         string
		rule           sql.NullString
		verdict        sql.NullString
		unavailable    sql.NullInt64
		assessmentJSON sql.NullString
		candidateCount sql.NullInt64
		runID          sql.NullString
		statusStr      string
		resolution     sql.NullString
		createdRaw     sql.NullString
		updatedRaw     sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&trackKey,
		&sourceJSON,
		&reason,
		&rule,
		&verdict,
		&unavailable,
		&assessmentJSON,
		&candidateCount,
		&runID,
		&statusStr,
		&resolution,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:                    id,
		TrackKey:              trackKey,
		Reason:                reason,
		Rule:                  rule.String,
		Verdict:               verdict.String,
		UnavailableConfidence: int(unavailable.Int64),
		CandidateCount:        int(candidateCount.Int64),
		RunID:                 runID.String,
		Status:                Status(statusStr),
		Resolution:            resolution.String,
	}
	if err := json.Unmarshal([]byte(sourceJSON), &entry.Source); err != nil {
		return nil, fmt.Errorf("decode source track for entry %d: %w", id, err)
	}
	if assessmentJSON.Valid && assessmentJSON.String != "" {
		var assessment matching.Assessment
		if err := json.Unmarshal([]byte(assessmentJSON.String), &assessment); err != nil {
			return nil, fmt.Errorf("decode assessment for entry %d: %w", id, err)
		}
		entry.Assessment = &assessment
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		entry.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		entry.UpdatedAt = updated
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableAssessment(assessment *matching.Assessment) (any, error) {
	if assessment == nil {
		return nil, nil
	}
	data, err := json.Marshal(assessment)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := range count {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

func statusArgs(statuses []Status) []any {
	args := make([]any, 0, len(statuses))
	for _, status := range statuses {
		args = append(args, string(status))
	}
	return args
}
