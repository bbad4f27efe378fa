package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/greggers/racelab/internal/harness"
)

// ErrUnknownScenario is returned by Lookup for names not in the table.
var ErrUnknownScenario = errors.New("unknown scenario")

// Scenario is one catalog entry: a named experiment binding a fixture
// constructor, a worker topology, and an evaluator.
type Scenario struct {
	Name        string
	Description string

	// Defaults are the parameters the scenario was designed around,
	// mirroring the original demonstrations (10×1000 counter increments,
	// 100ms interleaving windows).
	Defaults Params

	run func(ctx context.Context, p Params, log *slog.Logger) (harness.Outcome, error)
}

// Run executes the scenario with the given overrides merged over the
// scenario defaults. The fixture is constructed inside the call and
// discarded when it returns.
func (s Scenario) Run(ctx context.Context, overrides Params, log *slog.Logger) (harness.Outcome, error) {
	p := overrides.Merge(s.Defaults)
	if err := p.validate(); err != nil {
		return harness.Outcome{}, err
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log.Debug("scenario starting",
		"scenario", s.Name, "workers", p.Workers, "ops", p.Ops, "trials", p.Trials)
	return s.run(ctx, p, log)
}

// Catalog returns the fixed scenario table in its stable order.
func Catalog() []Scenario {
	return []Scenario{
		counterScenario,
		counterSafeScenario,
		collectionScenario,
		collectionSafeScenario,
		publishScenario,
		publishSafeScenario,
		falseSharingScenario,
		stackABAScenario,
		stackABASafeScenario,
	}
}

// Lookup finds a scenario by name.
func Lookup(name string) (Scenario, error) {
	for _, s := range Catalog() {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
}
