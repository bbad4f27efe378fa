package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/greggers/racelab/internal/fixture"
	"github.com/greggers/racelab/internal/harness"
)

var falseSharingScenario = Scenario{
	Name:        "false-sharing",
	Description: "adjacent counters pay coherence traffic a cache line of padding removes",
	// Two workers, one per counter; the topology is fixed by the fixture.
	Defaults: Params{Workers: 2, Ops: 1_000_000, Trials: 5},
	run: func(ctx context.Context, p Params, log *slog.Logger) (harness.Outcome, error) {
		return runFalseSharing(ctx, "false-sharing", p, log)
	},
}

func runFalseSharing(ctx context.Context, name string, p Params, log *slog.Logger) (harness.Outcome, error) {
	unpadded, unpaddedStats, err := runPairVariant(ctx, p, log, func() fixture.PairCounters {
		return fixture.NewSharedLinePair()
	})
	if err != nil {
		return harness.Outcome{}, err
	}
	padded, paddedStats, err := runPairVariant(ctx, p, log, func() fixture.PairCounters {
		return fixture.NewPaddedPair()
	})
	if err != nil {
		return harness.Outcome{}, err
	}

	log.Debug("timing medians",
		"scenario", name,
		"unpadded", unpadded.Median,
		"padded", padded.Median)

	stats := harness.RunStats{
		Elapsed:  unpaddedStats.Elapsed + paddedStats.Elapsed,
		Faults:   append(unpaddedStats.Faults, paddedStats.Faults...),
		TimedOut: unpaddedStats.TimedOut || paddedStats.TimedOut,
	}
	observed := harness.FalseSharingReading{Unpadded: unpadded, Padded: padded}
	return harness.EvaluateFalseSharing(name, int64(p.Ops), observed, stats), nil
}

// runPairVariant times one memory layout across p.Trials runs, each on a
// fresh pair, and reports the median elapsed time.
func runPairVariant(ctx context.Context, p Params, log *slog.Logger, newPair func() fixture.PairCounters) (harness.VariantTiming, harness.RunStats, error) {
	var (
		timing  harness.VariantTiming
		agg     harness.RunStats
		samples = make([]time.Duration, 0, p.Trials)
		deviant bool
	)
	for trial := 0; trial < p.Trials; trial++ {
		pair := newPair()
		specs := []harness.WorkerSpec{
			{ID: 0, Ops: p.Ops, Step: func(int) { pair.IncA() }},
			{ID: 1, Ops: p.Ops, Step: func(int) { pair.IncB() }},
		}
		stats, err := harness.NewRunner(p.timeout(), log).Run(ctx, specs)
		if err != nil {
			return harness.VariantTiming{}, harness.RunStats{}, err
		}
		samples = append(samples, stats.Elapsed)
		agg.Elapsed += stats.Elapsed
		agg.Faults = append(agg.Faults, stats.Faults...)
		agg.TimedOut = agg.TimedOut || stats.TimedOut

		// Keep the first deviating trial's counters; otherwise the last
		// trial stands for the variant.
		if a, b := pair.Values(); !deviant {
			timing.A, timing.B = a, b
			deviant = a != int64(p.Ops) || b != int64(p.Ops)
		}
	}
	timing.Median = harness.MedianDuration(samples)
	return timing, agg, nil
}
