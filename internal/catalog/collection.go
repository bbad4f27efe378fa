package catalog

import (
	"context"
	"log/slog"

	"github.com/greggers/racelab/internal/fixture"
	"github.com/greggers/racelab/internal/harness"
)

var collectionScenario = Scenario{
	Name:        "collection",
	Description: "concurrent growth of a slice, sum, and flag tears all three apart",
	Defaults:    Params{Workers: 10, Ops: 100, Trials: 1},
	run: func(ctx context.Context, p Params, log *slog.Logger) (harness.Outcome, error) {
		return runCollection(ctx, "collection", fixture.NewRacyCollection(), p, log)
	},
}

var collectionSafeScenario = Scenario{
	Name:        "collection-safe",
	Description: "the same growth under one mutex stays exact",
	Defaults:    Params{Workers: 10, Ops: 100, Trials: 1},
	run: func(ctx context.Context, p Params, log *slog.Logger) (harness.Outcome, error) {
		return runCollection(ctx, "collection-safe", fixture.NewLockedCollection(), p, log)
	},
}

func runCollection(ctx context.Context, name string, c fixture.Collection, p Params, log *slog.Logger) (harness.Outcome, error) {
	specs := make([]harness.WorkerSpec, p.Workers)
	for w := range specs {
		specs[w] = harness.WorkerSpec{
			ID:  w,
			Ops: p.Ops,
			// Each worker appends its iteration index, so the race-free
			// aggregate is known in closed form.
			Step: func(i int) { c.Add(int64(i)) },
		}
	}

	stats, err := harness.NewRunner(p.timeout(), log).Run(ctx, specs)
	if err != nil {
		return harness.Outcome{}, err
	}

	totalAdds := p.Workers * p.Ops
	expected := fixture.CollectionSnapshot{
		Len: totalAdds,
		Sum: int64(p.Workers) * int64(p.Ops) * int64(p.Ops-1) / 2,
		// The flag flips once per add; an odd total lands on true.
		Toggled: totalAdds%2 == 1,
	}
	return harness.EvaluateCollection(name, expected, c.Snapshot(), stats), nil
}
