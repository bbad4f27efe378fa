package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greggers/racelab/internal/harness"
)

func TestCatalog_StableOrder(t *testing.T) {
	want := []string{
		"counter",
		"counter-safe",
		"collection",
		"collection-safe",
		"publish",
		"publish-safe",
		"false-sharing",
		"stack-aba",
		"stack-aba-safe",
	}

	var got []string
	for _, s := range Catalog() {
		got = append(got, s.Name)
	}
	assert.Equal(t, want, got, "the emitter depends on a deterministic table order")
}

func TestCatalog_EntriesComplete(t *testing.T) {
	for _, s := range Catalog() {
		assert.NotEmpty(t, s.Description, "scenario %s needs a description", s.Name)
		assert.NotNil(t, s.run, "scenario %s needs a run function", s.Name)
		assert.GreaterOrEqual(t, s.Defaults.Workers, 1, "scenario %s defaults", s.Name)
		assert.GreaterOrEqual(t, s.Defaults.Ops, 1, "scenario %s defaults", s.Name)
	}
}

func TestLookup(t *testing.T) {
	s, err := Lookup("counter")
	require.NoError(t, err)
	assert.Equal(t, "counter", s.Name)

	_, err = Lookup("no-such-experiment")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownScenario)
}

func TestScenarioRun_InvalidOverridesRejected(t *testing.T) {
	s, err := Lookup("counter")
	require.NoError(t, err)

	// A negative count passes the zero-means-default merge and must be
	// caught by validation before any worker starts.
	_, err = s.Run(context.Background(), Params{Ops: -5}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, harness.ErrConfig)
}

func TestScenarioRun_ExpectedIsArithmetic(t *testing.T) {
	// expected = workers × ops, independent of the concurrency outcome.
	cases := []struct {
		workers, ops int
	}{
		{2, 1},
		{3, 17},
		{10, 1000},
	}
	for _, tc := range cases {
		for _, name := range []string{"counter", "counter-safe"} {
			s, err := Lookup(name)
			require.NoError(t, err)

			o, err := s.Run(context.Background(), Params{Workers: tc.workers, Ops: tc.ops}, nil)
			require.NoError(t, err)

			want := harness.CounterReading{Count: int64(tc.workers * tc.ops)}
			assert.Equal(t, want, o.Expected, "%s %d×%d", name, tc.workers, tc.ops)
		}
	}
}

func TestCounter_SingleThreadedAlwaysConsistent(t *testing.T) {
	s, err := Lookup("counter")
	require.NoError(t, err)

	// No concurrency, no race: even the racy fixture must stay exact.
	for trial := 0; trial < 5; trial++ {
		o, err := s.Run(context.Background(), Params{Workers: 1, Ops: 5000}, nil)
		require.NoError(t, err)
		assert.True(t, o.Consistent, "trial %d", trial)
		assert.Equal(t, 0.0, o.Divergence)
	}
}

func TestSafeScenarios_Consistent(t *testing.T) {
	// The synchronized counterparts must come out exact run after run.
	overrides := map[string]Params{
		"counter-safe":    {Workers: 8, Ops: 2000},
		"collection-safe": {Workers: 8, Ops: 200},
		"publish-safe":    {Delay: Duration(5 * time.Millisecond)},
		"stack-aba-safe":  {Delay: Duration(5 * time.Millisecond)},
	}

	for name, p := range overrides {
		s, err := Lookup(name)
		require.NoError(t, err)

		for trial := 0; trial < 3; trial++ {
			o, err := s.Run(context.Background(), p, nil)
			require.NoError(t, err)
			assert.True(t, o.Consistent, "%s trial %d: %+v", name, trial, o)
			assert.Empty(t, o.Faults, "%s trial %d", name, trial)
		}
	}
}
