package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greggers/racelab/internal/harness"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleOutcome(name string, consistent bool) harness.Outcome {
	o := harness.Outcome{
		Name:       name,
		Expected:   harness.CounterReading{Count: 10000},
		Observed:   harness.CounterReading{Count: 10000},
		Consistent: consistent,
		Elapsed:    3 * time.Millisecond,
	}
	if !consistent {
		o.Observed = harness.CounterReading{Count: 9417}
		o.Divergence = 583
	}
	return o
}

func TestStore_OpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestStore_WriteAndReadBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.WriteOutcome(ctx, sampleOutcome("counter", false), map[string]int{"workers": 10, "ops": 1000})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	records, err := s.Recent(ctx, "counter", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, id, r.ID)
	assert.Equal(t, "counter", r.Scenario)
	assert.False(t, r.Consistent)
	assert.Equal(t, 583.0, r.Divergence)
	assert.Equal(t, 3*time.Millisecond, r.Elapsed)
	assert.JSONEq(t, `{"count":10000}`, r.Expected)
	assert.JSONEq(t, `{"count":9417}`, r.Observed)
	assert.JSONEq(t, `[]`, r.Faults)
	assert.JSONEq(t, `{"workers":10,"ops":1000}`, r.Params)
	assert.WithinDuration(t, time.Now(), r.CreatedAt, time.Minute)
}

func TestStore_FaultsSurviveRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	o := sampleOutcome("publish", false)
	o.Faults = []harness.Fault{{Worker: 1, Message: "panic: boom"}}

	_, err := s.WriteOutcome(ctx, o, nil)
	require.NoError(t, err)

	records, err := s.Recent(ctx, "publish", 1)
	require.NoError(t, err)
	require.Len(t, records, 1)

	var faults []harness.Fault
	require.NoError(t, json.Unmarshal([]byte(records[0].Faults), &faults))
	require.Len(t, faults, 1)
	assert.Equal(t, 1, faults[0].Worker)
}

func TestStore_RecentFiltersAndLimits(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.WriteOutcome(ctx, sampleOutcome("counter", true), nil)
		require.NoError(t, err)
	}
	_, err := s.WriteOutcome(ctx, sampleOutcome("collection", true), nil)
	require.NoError(t, err)

	records, err := s.Recent(ctx, "counter", 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, "counter", r.Scenario)
	}

	all, err := s.Recent(ctx, "", 100)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestStore_CorruptionRate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.WriteOutcome(ctx, sampleOutcome("counter", false), nil)
		require.NoError(t, err)
	}
	for i := 0; i < 7; i++ {
		_, err := s.WriteOutcome(ctx, sampleOutcome("counter", true), nil)
		require.NoError(t, err)
	}

	corrupted, total, err := s.CorruptionRate(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, 3, corrupted)
	assert.Equal(t, 10, total)

	corrupted, total, err = s.CorruptionRate(ctx, "never-ran")
	require.NoError(t, err)
	assert.Zero(t, corrupted)
	assert.Zero(t, total)
}
