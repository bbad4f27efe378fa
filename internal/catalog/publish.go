package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/greggers/racelab/internal/fixture"
	"github.com/greggers/racelab/internal/harness"
)

// publishedValue is what the producer stores, mirroring the original
// demonstration.
const publishedValue = 42

var publishScenario = Scenario{
	Name:        "publish",
	Description: "payload pointer and ready flag published without ordering",
	Defaults:    Params{Workers: 2, Ops: 1, Trials: 1, Delay: Duration(100 * time.Millisecond), Timeout: Duration(5 * time.Second)},
	run: func(ctx context.Context, p Params, log *slog.Logger) (harness.Outcome, error) {
		return runPublish(ctx, "publish", fixture.NewRacyPublishCell(), p, log)
	},
}

var publishSafeScenario = Scenario{
	Name:        "publish-safe",
	Description: "the same handoff through a mutex can never expose the gap",
	Defaults:    Params{Workers: 2, Ops: 1, Trials: 1, Delay: Duration(100 * time.Millisecond), Timeout: Duration(5 * time.Second)},
	run: func(ctx context.Context, p Params, log *slog.Logger) (harness.Outcome, error) {
		return runPublish(ctx, "publish-safe", fixture.NewSafePublishCell(), p, log)
	},
}

// publishProbe is written by the consumer before the join barrier and
// read by the evaluator after it.
type publishProbe struct {
	gapObserved bool
	consumed    int64
}

func runPublish(ctx context.Context, name string, cell fixture.PublishCell, p Params, log *slog.Logger) (harness.Outcome, error) {
	probe := &publishProbe{}
	poll := p.delay() / 10
	if poll <= 0 {
		poll = time.Millisecond
	}

	producer := harness.WorkerSpec{
		ID: 0,
		Script: func(ctx context.Context) error {
			// Delay the publication so the consumer is already waiting
			// inside its poll loop when the two stores land.
			time.Sleep(p.delay())
			cell.Publish(publishedValue)
			return nil
		},
	}

	consumer := harness.WorkerSpec{
		ID: 1,
		Script: func(ctx context.Context) error {
			for {
				if cell.Ready() {
					// The corruption signature: flag up, payload absent.
					if ready, present := cell.Observe(); ready && !present {
						probe.gapObserved = true
					}
					// Dereferencing an unset payload faults; the runner
					// records that instead of crashing the harness.
					probe.consumed = cell.Read()
					return nil
				}
				select {
				case <-ctx.Done():
					return fmt.Errorf("consumer gave up waiting for publication: %w", ctx.Err())
				case <-time.After(poll):
				}
			}
		},
	}

	stats, err := harness.NewRunner(p.timeout(), log).Run(ctx, []harness.WorkerSpec{producer, consumer})
	if err != nil {
		return harness.Outcome{}, err
	}

	ready, present := cell.Observe()
	observed := harness.PublishReading{
		Ready:          ready,
		PayloadPresent: present,
		GapObserved:    probe.gapObserved,
	}
	if probe.consumed != 0 {
		log.Debug("consumer read payload", "scenario", name, "value", probe.consumed)
	}
	return harness.EvaluatePublish(name, observed, stats), nil
}
