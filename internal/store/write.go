package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greggers/racelab/internal/harness"
)

// WriteOutcome inserts one scenario outcome and returns its run ID.
//
// Expected, observed, faults, and the effective parameters are serialized
// to JSON so the history survives shape changes across scenarios. Run IDs
// are UUIDv7: time-ordered, so lexical ID order matches insertion order.
func (s *Store) WriteOutcome(ctx context.Context, o harness.Outcome, params any) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("write outcome: %w", err)
	}

	expected, err := json.Marshal(o.Expected)
	if err != nil {
		return "", fmt.Errorf("write outcome: marshal expected: %w", err)
	}
	observed, err := json.Marshal(o.Observed)
	if err != nil {
		return "", fmt.Errorf("write outcome: marshal observed: %w", err)
	}
	faults := []harness.Fault{}
	if o.Faults != nil {
		faults = o.Faults
	}
	faultsJSON, err := json.Marshal(faults)
	if err != nil {
		return "", fmt.Errorf("write outcome: marshal faults: %w", err)
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("write outcome: marshal params: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, created_at, scenario, consistent, divergence, elapsed_ns, timed_out, expected, observed, faults, params)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id.String(),
		time.Now().UTC().Format(time.RFC3339Nano),
		o.Name,
		o.Consistent,
		o.Divergence,
		int64(o.Elapsed),
		o.TimedOut,
		string(expected),
		string(observed),
		string(faultsJSON),
		string(paramsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("write outcome: %w", err)
	}
	return id.String(), nil
}
