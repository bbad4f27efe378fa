package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/greggers/racelab/internal/fixture"
	"github.com/greggers/racelab/internal/harness"
)

var stackABAScenario = Scenario{
	Name:        "stack-aba",
	Description: "a popped and re-pushed node fools a pointer-identity check",
	Defaults:    Params{Workers: 2, Ops: 1, Trials: 1, Delay: Duration(100 * time.Millisecond), Timeout: Duration(10 * time.Second)},
	run: func(ctx context.Context, p Params, log *slog.Logger) (harness.Outcome, error) {
		return runStackABA(ctx, "stack-aba", p, log)
	},
}

var stackABASafeScenario = Scenario{
	Name:        "stack-aba-safe",
	Description: "a generation-tagged handle exposes the same exchange",
	Defaults:    Params{Workers: 2, Ops: 1, Trials: 1, Delay: Duration(100 * time.Millisecond), Timeout: Duration(10 * time.Second)},
	run: func(ctx context.Context, p Params, log *slog.Logger) (harness.Outcome, error) {
		return runTaggedABA(ctx, "stack-aba-safe", p, log)
	},
}

// abaProbe is written by the observer before the join barrier and read by
// the evaluator after it.
type abaProbe struct {
	identityUnchanged bool
	generationDelta   int64
}

// The schedule for both variants: the observer records identity at t=0;
// the mutator pops the head at t=delay and restores the identical node at
// t=2*delay; the observer compares at t=2.5*delay, after the exchange has
// completed. The delays bias this interleaving, they do not guarantee it.
func runStackABA(ctx context.Context, name string, p Params, log *slog.Logger) (harness.Outcome, error) {
	s := fixture.NewRacyStack(1, 2)
	probe := &abaProbe{}
	delay := p.delay()

	mutator := harness.WorkerSpec{
		ID: 0,
		Script: func(ctx context.Context) error {
			time.Sleep(delay)
			n := s.Pop()
			if n == nil {
				return errors.New("mutator found the stack empty")
			}
			time.Sleep(delay)
			s.PushNode(n) // same node, same address: identity restored
			return nil
		},
	}

	observer := harness.WorkerSpec{
		ID: 1,
		Script: func(ctx context.Context) error {
			observed := s.Top()
			genAtObserve := s.Generation()
			time.Sleep(2*delay + delay/2)
			probe.identityUnchanged = s.Top() == observed
			probe.generationDelta = s.Generation() - genAtObserve
			return nil
		},
	}

	stats, err := harness.NewRunner(p.timeout(), log).Run(ctx, []harness.WorkerSpec{mutator, observer})
	if err != nil {
		return harness.Outcome{}, err
	}

	observed := harness.StackReading{
		IdentityUnchanged: probe.identityUnchanged,
		GenerationDelta:   probe.generationDelta,
	}
	return harness.EvaluateStackABA(name, observed, stats), nil
}

func runTaggedABA(ctx context.Context, name string, p Params, log *slog.Logger) (harness.Outcome, error) {
	s := fixture.NewTaggedStack(8, 1, 2)
	probe := &abaProbe{}
	delay := p.delay()

	mutator := harness.WorkerSpec{
		ID: 0,
		Script: func(ctx context.Context) error {
			time.Sleep(delay)
			idx, ok := s.Pop()
			if !ok {
				return errors.New("mutator found the stack empty")
			}
			time.Sleep(delay)
			s.PushIndex(idx) // same arena slot, but the generation moves
			return nil
		},
	}

	observer := harness.WorkerSpec{
		ID: 1,
		Script: func(ctx context.Context) error {
			idxBefore, genBefore := s.Top()
			time.Sleep(2*delay + delay/2)
			idxAfter, genAfter := s.Top()
			// Identity here is the full handle. The index alone would be
			// fooled exactly like the raw pointer; the generation is what
			// exposes the exchange.
			probe.identityUnchanged = idxAfter == idxBefore && genAfter == genBefore
			probe.generationDelta = int64(genAfter) - int64(genBefore)
			return nil
		},
	}

	stats, err := harness.NewRunner(p.timeout(), log).Run(ctx, []harness.WorkerSpec{mutator, observer})
	if err != nil {
		return harness.Outcome{}, err
	}

	observed := harness.StackReading{
		IdentityUnchanged: probe.identityUnchanged,
		GenerationDelta:   probe.generationDelta,
	}
	return harness.EvaluateStackABA(name, observed, stats), nil
}
