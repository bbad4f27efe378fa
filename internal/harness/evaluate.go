package harness

import (
	"math"
	"sort"
	"time"

	"github.com/greggers/racelab/internal/fixture"
)

// Evaluators are pure functions from a scenario's final fixture snapshot
// (plus the analytically-correct expectation) to an Outcome. They fold the
// runner's stats in so a faulted or hung run is never classified as
// consistent.

// CounterReading is the expected/observed shape for counting scenarios.
type CounterReading struct {
	Count int64 `json:"count"`
}

// EvaluateCounter classifies a counter run. Divergence is the number of
// lost updates: expected minus observed.
func EvaluateCounter(name string, expected, observed int64, stats RunStats) Outcome {
	return Outcome{
		Name:       name,
		Expected:   CounterReading{Count: expected},
		Observed:   CounterReading{Count: observed},
		Consistent: expected == observed && stats.clean(),
		Divergence: float64(expected - observed),
		Elapsed:    stats.Elapsed,
		Faults:     stats.Faults,
		TimedOut:   stats.TimedOut,
	}
}

// EvaluateCollection classifies a shared-collection run. Consistency
// requires both the sequence length and the aggregate sum to match;
// corruption under concurrent growth can manifest through either.
// Divergence is the sum of the absolute length and sum distances.
func EvaluateCollection(name string, expected, observed fixture.CollectionSnapshot, stats RunStats) Outcome {
	divergence := math.Abs(float64(expected.Len-observed.Len)) +
		math.Abs(float64(expected.Sum-observed.Sum))
	consistent := expected.Len == observed.Len &&
		expected.Sum == observed.Sum &&
		expected.Toggled == observed.Toggled &&
		stats.clean()
	return Outcome{
		Name:       name,
		Expected:   expected,
		Observed:   observed,
		Consistent: consistent,
		Divergence: divergence,
		Elapsed:    stats.Elapsed,
		Faults:     stats.Faults,
		TimedOut:   stats.TimedOut,
	}
}

// PublishReading is the expected/observed shape for the publication race.
// Ready and PayloadPresent are the cell's final state; GapObserved records
// whether the consumer ever saw the flag raised while the payload pointer
// was still absent, which is the target corruption signature.
type PublishReading struct {
	Ready          bool `json:"ready"`
	PayloadPresent bool `json:"payload_present"`
	GapObserved    bool `json:"gap_observed"`
}

// EvaluatePublish classifies a publication run. The invariant: whenever
// ready is true the payload must be present. A consumer fault (nil
// dereference) is the same corruption surfacing at a different point.
func EvaluatePublish(name string, observed PublishReading, stats RunStats) Outcome {
	expected := PublishReading{Ready: true, PayloadPresent: true, GapObserved: false}
	corrupted := (observed.Ready && !observed.PayloadPresent) || observed.GapObserved
	var divergence float64
	if corrupted {
		divergence = 1
	}
	return Outcome{
		Name:       name,
		Expected:   expected,
		Observed:   observed,
		Consistent: !corrupted && stats.clean(),
		Divergence: divergence,
		Elapsed:    stats.Elapsed,
		Faults:     stats.Faults,
		TimedOut:   stats.TimedOut,
	}
}

// VariantTiming is one memory-layout variant's result in the false-sharing
// comparison: final counter values plus the median elapsed wall time
// across trials.
type VariantTiming struct {
	A      int64         `json:"a"`
	B      int64         `json:"b"`
	Median time.Duration `json:"median_ns"`
}

// FalseSharingReading pairs the two layout variants.
type FalseSharingReading struct {
	Unpadded VariantTiming `json:"unpadded"`
	Padded   VariantTiming `json:"padded"`
}

// EvaluateFalseSharing classifies the timing comparison. Consistency is
// redefined for this scenario: both counters of both variants reach their
// individually-expected terminal value. The medians are the finding; the
// padded variant is expected to be no slower, but that is reported, not
// asserted, because raw wall-clock comparison is inherently noisy.
func EvaluateFalseSharing(name string, opsPerCounter int64, observed FalseSharingReading, stats RunStats) Outcome {
	expected := FalseSharingReading{
		Unpadded: VariantTiming{A: opsPerCounter, B: opsPerCounter},
		Padded:   VariantTiming{A: opsPerCounter, B: opsPerCounter},
	}
	divergence := math.Abs(float64(opsPerCounter-observed.Unpadded.A)) +
		math.Abs(float64(opsPerCounter-observed.Unpadded.B)) +
		math.Abs(float64(opsPerCounter-observed.Padded.A)) +
		math.Abs(float64(opsPerCounter-observed.Padded.B))
	return Outcome{
		Name:       name,
		Expected:   expected,
		Observed:   observed,
		Consistent: divergence == 0 && stats.clean(),
		Divergence: divergence,
		Elapsed:    stats.Elapsed,
		Faults:     stats.Faults,
		TimedOut:   stats.TimedOut,
	}
}

// StackReading is the expected/observed shape for the ABA scenario.
// IdentityUnchanged is the observer's belief from comparing identities
// across its two reads; GenerationDelta is how far the structural marker
// moved between those reads.
type StackReading struct {
	IdentityUnchanged bool  `json:"identity_unchanged"`
	GenerationDelta   int64 `json:"generation_delta"`
}

// EvaluateStackABA classifies the ABA run. The signature: identity
// comparison says nothing moved while the generation marker says it did.
func EvaluateStackABA(name string, observed StackReading, stats RunStats) Outcome {
	expected := StackReading{IdentityUnchanged: true, GenerationDelta: 0}
	fooled := observed.IdentityUnchanged && observed.GenerationDelta != 0
	var divergence float64
	if fooled {
		divergence = float64(observed.GenerationDelta)
	}
	return Outcome{
		Name:       name,
		Expected:   expected,
		Observed:   observed,
		Consistent: !fooled && stats.clean(),
		Divergence: divergence,
		Elapsed:    stats.Elapsed,
		Faults:     stats.Faults,
		TimedOut:   stats.TimedOut,
	}
}

// MedianDuration returns the median of the given samples. Median-of-N is
// the noise threshold for the timing comparison; a single timed run is
// too noisy to compare.
func MedianDuration(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
