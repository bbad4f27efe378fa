// Package catalog defines the fixed set of concurrency experiments the
// harness knows how to run.
//
// Each entry binds a scenario name to a fixture constructor, a worker
// topology, and an evaluator. The table has a stable, deterministic order
// and covers five hazards (lost counter updates, torn collection
// updates, unordered publication, false sharing, and ABA on a linked
// stack) plus a synchronized safe counterpart for each correctness
// hazard. Safe and unsafe variants run through the identical runner and
// evaluator code path; only the fixture's mutation implementation
// differs, so the harness reports both the hazard and its fix the same
// way.
//
// A fresh fixture is constructed inside every run, exclusively owned by
// that invocation and never reused, so results cannot be contaminated by
// prior state.
package catalog
