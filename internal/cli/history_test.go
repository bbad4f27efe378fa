package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greggers/racelab/internal/harness"
	"github.com/greggers/racelab/internal/store"
)

// seedHistory records canned outcomes and returns the database path.
func seedHistory(t *testing.T, outcomes ...harness.Outcome) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	for _, o := range outcomes {
		_, err := st.WriteOutcome(context.Background(), o, nil)
		require.NoError(t, err)
	}
	return path
}

func TestHistory_RequiresDatabaseFlag(t *testing.T) {
	_, err := executeCommand(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db")
}

func TestHistory_EmptyDatabase(t *testing.T) {
	path := seedHistory(t)

	out, err := executeCommand(t, "history", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "no recorded runs")
}

func TestHistory_ListsRunsAndCorruptionRate(t *testing.T) {
	path := seedHistory(t,
		harness.Outcome{
			Name:       "counter",
			Expected:   harness.CounterReading{Count: 10000},
			Observed:   harness.CounterReading{Count: 9417},
			Divergence: 583,
			Elapsed:    3 * time.Millisecond,
		},
		harness.Outcome{
			Name:       "counter",
			Expected:   harness.CounterReading{Count: 10000},
			Observed:   harness.CounterReading{Count: 10000},
			Consistent: true,
			Elapsed:    2 * time.Millisecond,
		},
	)

	out, err := executeCommand(t, "history", "counter", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "corrupted")
	assert.Contains(t, out, "consistent")
	assert.Contains(t, out, "divergence=583")
	assert.Contains(t, out, "counter: corrupted 1 of 2 recorded runs (50.0%)")
}

func TestHistory_FiltersUnknownScenario(t *testing.T) {
	path := seedHistory(t, harness.Outcome{
		Name:       "counter",
		Expected:   harness.CounterReading{Count: 100},
		Observed:   harness.CounterReading{Count: 100},
		Consistent: true,
	})

	out, err := executeCommand(t, "history", "publish", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "no recorded runs")
}
