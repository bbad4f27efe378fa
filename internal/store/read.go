package store

import (
	"context"
	"fmt"
	"time"
)

// RunRecord is one persisted outcome as read back from the history.
// Expected, observed, faults, and params stay in their JSON form; the
// history surface presents them, it does not re-evaluate them.
type RunRecord struct {
	ID         string        `json:"id"`
	CreatedAt  time.Time     `json:"created_at"`
	Scenario   string        `json:"scenario"`
	Consistent bool          `json:"consistent"`
	Divergence float64       `json:"divergence"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	TimedOut   bool          `json:"timed_out"`
	Expected   string        `json:"expected"`
	Observed   string        `json:"observed"`
	Faults     string        `json:"faults"`
	Params     string        `json:"params"`
}

// Recent returns the newest runs, optionally filtered by scenario name.
// An empty scenario matches everything.
func (s *Store) Recent(ctx context.Context, scenario string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, created_at, scenario, consistent, divergence, elapsed_ns, timed_out, expected, observed, faults, params
		FROM runs
	`
	args := []any{}
	if scenario != "" {
		query += " WHERE scenario = ?"
		args = append(args, scenario)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			r         RunRecord
			createdAt string
			elapsedNS int64
		)
		if err := rows.Scan(&r.ID, &createdAt, &r.Scenario, &r.Consistent, &r.Divergence,
			&elapsedNS, &r.TimedOut, &r.Expected, &r.Observed, &r.Faults, &r.Params); err != nil {
			return nil, fmt.Errorf("read runs: %w", err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("read runs: bad timestamp %q: %w", createdAt, err)
		}
		r.Elapsed = time.Duration(elapsedNS)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read runs: %w", err)
	}
	return records, nil
}

// CorruptionRate reports how often a scenario came out inconsistent
// across its recorded history: corrupted count and total count.
func (s *Store) CorruptionRate(ctx context.Context, scenario string) (corrupted, total int, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FILTER (WHERE consistent = 0), COUNT(*)
		FROM runs
		WHERE scenario = ?
	`, scenario)
	if err := row.Scan(&corrupted, &total); err != nil {
		return 0, 0, fmt.Errorf("corruption rate: %w", err)
	}
	return corrupted, total, nil
}
