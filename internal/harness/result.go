package harness

import "time"

// Fault records a worker that terminated abnormally instead of running to
// completion. Faults are downgraded panics: they never propagate past the
// runner, and a run that produced one still yields an Outcome.
type Fault struct {
	Worker  int    `json:"worker"`
	Message string `json:"message"`
}

// Outcome is the structured result record produced for one scenario run.
// Immutable once produced.
//
// Expected and Observed carry the same shape per scenario (a counter
// reading, a collection snapshot, and so on) and are JSON-serializable so
// the report emitter and the run store can carry them opaquely.
type Outcome struct {
	Name       string        `json:"name"`
	Expected   any           `json:"expected"`
	Observed   any           `json:"observed"`
	Consistent bool          `json:"consistent"`
	Divergence float64       `json:"divergence"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Faults     []Fault       `json:"faults,omitempty"`
	TimedOut   bool          `json:"timed_out,omitempty"`
}

// Corrupted reports whether the run manifested the hazard under test:
// either the evaluator flagged divergence or a worker faulted.
func (o Outcome) Corrupted() bool {
	return !o.Consistent
}

// RunStats captures what the runner itself observed: wall time from first
// spawn to last join, worker faults, and whether the join barrier was
// abandoned on timeout.
type RunStats struct {
	Elapsed  time.Duration
	Faults   []Fault
	TimedOut bool
}

// clean reports whether the run finished with no faults and no timeout.
// Evaluators fold this into consistency so a hung or crashed worker is
// never misclassified as a consistent run.
func (s RunStats) clean() bool {
	return !s.TimedOut && len(s.Faults) == 0
}
