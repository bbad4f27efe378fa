package catalog

import (
	"context"
	"log/slog"

	"github.com/greggers/racelab/internal/fixture"
	"github.com/greggers/racelab/internal/harness"
)

var counterScenario = Scenario{
	Name:        "counter",
	Description: "unsynchronized read-modify-write increments lose updates",
	Defaults:    Params{Workers: 10, Ops: 1000, Trials: 1},
	run: func(ctx context.Context, p Params, log *slog.Logger) (harness.Outcome, error) {
		return runCounter(ctx, "counter", fixture.NewRacyCounter(), p, log)
	},
}

var counterSafeScenario = Scenario{
	Name:        "counter-safe",
	Description: "the same increments through an atomic add lose nothing",
	Defaults:    Params{Workers: 10, Ops: 1000, Trials: 1},
	run: func(ctx context.Context, p Params, log *slog.Logger) (harness.Outcome, error) {
		return runCounter(ctx, "counter-safe", fixture.NewAtomicCounter(), p, log)
	},
}

func runCounter(ctx context.Context, name string, c fixture.Counter, p Params, log *slog.Logger) (harness.Outcome, error) {
	specs := make([]harness.WorkerSpec, p.Workers)
	for w := range specs {
		specs[w] = harness.WorkerSpec{
			ID:   w,
			Ops:  p.Ops,
			Step: func(int) { c.Increment() },
		}
	}

	stats, err := harness.NewRunner(p.timeout(), log).Run(ctx, specs)
	if err != nil {
		return harness.Outcome{}, err
	}

	expected := int64(p.Workers) * int64(p.Ops)
	return harness.EvaluateCounter(name, expected, c.Value(), stats), nil
}
