package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultTimeout bounds a scenario's wall time when the caller does not
// override it. Generous: the scripted scenarios sleep for a few hundred
// milliseconds by design.
const DefaultTimeout = 30 * time.Second

// ErrConfig marks harness faults: misconfiguration detected before any
// worker starts. Unlike worker faults, a harness fault aborts the
// scenario.
var ErrConfig = errors.New("invalid harness configuration")

// WorkerSpec describes one concurrent task in a scenario.
//
// Symmetric workers set Step, which the runner invokes Ops times with the
// iteration index. Asymmetric workers (the publication producer/consumer,
// the ABA mutator/observer) set Script instead: a scripted sequence with
// explicit delay points that biases a specific interleaving window. Ops
// and Step are ignored when Script is set.
type WorkerSpec struct {
	ID     int
	Ops    int
	Step   func(i int)
	Script func(ctx context.Context) error
}

// Runner manages worker lifecycle for one scenario: spawn, run to
// completion, join or fail. It never touches the fixture itself.
type Runner struct {
	timeout time.Duration
	log     *slog.Logger
}

// NewRunner creates a runner with the given per-scenario timeout. A zero
// or negative timeout falls back to DefaultTimeout. A nil logger discards.
func NewRunner(timeout time.Duration, log *slog.Logger) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{timeout: timeout, log: log}
}

// Run executes every worker spec concurrently and blocks until all have
// terminated or the scenario timeout expires.
//
// Worker panics are recovered at the goroutine boundary and recorded as
// faults in the returned stats; they never propagate. A timeout is
// reported via RunStats.TimedOut rather than as an error, so the
// evaluator can classify the hang as a distinct fault instead of
// misreading a partial fixture as consistent.
func (r *Runner) Run(ctx context.Context, specs []WorkerSpec) (RunStats, error) {
	if err := validateSpecs(specs); err != nil {
		return RunStats{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		faults []Fault
	)
	record := func(id int, msg string) {
		mu.Lock()
		faults = append(faults, Fault{Worker: id, Message: msg})
		mu.Unlock()
	}

	start := time.Now()
	for _, spec := range specs {
		wg.Add(1)
		go func(spec WorkerSpec) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					r.log.Debug("worker faulted", "worker", spec.ID, "cause", rec)
					record(spec.ID, fmt.Sprintf("panic: %v", rec))
				}
			}()
			if spec.Script != nil {
				if err := spec.Script(ctx); err != nil {
					r.log.Debug("worker script failed", "worker", spec.ID, "error", err)
					record(spec.ID, err.Error())
				}
				return
			}
			for i := 0; i < spec.Ops; i++ {
				spec.Step(i)
			}
		}(spec)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	var stats RunStats
	select {
	case <-done:
	case <-ctx.Done():
		// The hung workers cannot be killed; the scenario is abandoned
		// and the fixture must not be trusted.
		stats.TimedOut = true
		r.log.Warn("join barrier abandoned", "timeout", r.timeout)
	}
	stats.Elapsed = time.Since(start)

	mu.Lock()
	stats.Faults = faults
	mu.Unlock()
	return stats, nil
}

func validateSpecs(specs []WorkerSpec) error {
	if len(specs) == 0 {
		return fmt.Errorf("%w: no workers", ErrConfig)
	}
	for _, spec := range specs {
		if spec.Script != nil {
			continue
		}
		if spec.Step == nil {
			return fmt.Errorf("%w: worker %d has neither step nor script", ErrConfig, spec.ID)
		}
		if spec.Ops <= 0 {
			return fmt.Errorf("%w: worker %d has %d iterations", ErrConfig, spec.ID, spec.Ops)
		}
	}
	return nil
}
