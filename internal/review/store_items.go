package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Add records a declined track. When the same track already has a pending
// entry, that entry is refreshed in place instead of duplicated.
func (s *Store) Add(ctx context.Context, entry Entry) (*Entry, error) {
	ctx = ensureContext(ctx)
	trackKey := strings.TrimSpace(entry.TrackKey)
	if trackKey == "" {
		return nil, errors.New("add review entry: track key is empty")
	}
	sourceJSON, err := json.Marshal(entry.Source)
	if err != nil {
		return nil, fmt.Errorf("marshal source track: %w", err)
	}
	assessmentJSON, err := nullableAssessment(entry.Assessment)
	if err != nil {
		return nil, fmt.Errorf("marshal assessment: %w", err)
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	var id int64
	err = retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(
			ctx,
			`INSERT INTO review_items (
                track_key, source_json, reason, rule, verdict, unavailable_confidence,
                assessment_json, candidate_count, run_id, status, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(track_key) WHERE status = 'pending' DO UPDATE SET
                source_json = excluded.source_json,
                reason = excluded.reason,
                rule = excluded.rule,
                verdict = excluded.verdict,
                unavailable_confidence = excluded.unavailable_confidence,
                assessment_json = excluded.assessment_json,
                candidate_count = excluded.candidate_count,
                run_id = excluded.run_id,
                updated_at = excluded.updated_at
            RETURNING id`,
			trackKey,
			string(sourceJSON),
			entry.Reason,
			nullableString(entry.Rule),
			nullableString(entry.Verdict),
			entry.UnavailableConfidence,
			assessmentJSON,
			entry.CandidateCount,
			nullableString(entry.RunID),
			StatusPending,
			timestamp,
			timestamp,
		).Scan(&id)
	})
	if err != nil {
		return nil, fmt.Errorf("insert review entry: %w", err)
	}
	return s.Get(ctx, id)
}

// Get fetches an entry by identifier.
func (s *Store) Get(ctx context.Context, id int64) (*Entry, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM review_items WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get review entry %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get review entry: %w", err)
	}
	return entry, nil
}

// List returns entries in insertion order, optionally restricted to the given
// statuses.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Entry, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + entryColumns + ` FROM review_items`
	args := statusArgs(statuses)
	if len(args) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(args)) + `)`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list review entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Resolve closes a pending entry, recording how it was resolved (typically
// the chosen target track ID).
func (s *Store) Resolve(ctx context.Context, id int64, resolution string) error {
	return s.close(ctx, id, StatusResolved, resolution)
}

// Dismiss closes a pending entry without a match.
func (s *Store) Dismiss(ctx context.Context, id int64, note string) error {
	return s.close(ctx, id, StatusDismissed, note)
}

func (s *Store) close(ctx context.Context, id int64, status Status, resolution string) error {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE review_items SET status = ?, resolution = ?, updated_at = ?
         WHERE id = ? AND status = ?`,
		status,
		nullableString(strings.TrimSpace(resolution)),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		StatusPending,
	)
	if err != nil {
		return fmt.Errorf("mark review entry %s: %w", status, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("review entry %d: %w", id, ErrNotPending)
}

// Clear deletes entries with the given statuses, or every entry when none are
// given, and returns how many were removed.
func (s *Store) Clear(ctx context.Context, statuses ...Status) (int64, error) {
	query := `DELETE FROM review_items`
	args := statusArgs(statuses)
	if len(args) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(args)) + `)`
	}
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear review entries: %w", err)
	}
	return res.RowsAffected()
}
