// Package harness executes one concurrency experiment and judges its
// outcome.
//
// The runner's only job is worker lifecycle: spawn one goroutine per
// WorkerSpec, let each run its mutation to completion, and hold the caller
// at a join barrier until every worker has terminated. It imposes no
// synchronization of its own on the fixture under test. The join barrier
// is the single ordering guarantee the harness provides: every worker
// mutation is complete before the evaluator reads the fixture. Without it
// the results would be meaningless.
//
// Worker faults are findings, not failures. A worker that panics (for
// example, dereferencing an unpublished payload) is recovered at the
// goroutine boundary and recorded in the run's fault list; the fact that
// the fault is possible is part of what the scenario demonstrates. Only
// misconfiguration (zero workers, zero iterations) aborts before
// execution.
//
// Hazard manifestation is probabilistic, not deterministic. Scripted
// delays bias a particular interleaving but cannot guarantee it; a single
// run reporting no corruption is not proof of absence.
package harness
