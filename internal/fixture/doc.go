// Package fixture provides the shared mutable state the harness runs its
// experiments against.
//
// Every fixture comes in two forms behind one interface: a racy form that
// performs no locking, atomics, or fences, and a safe counterpart that
// synchronizes the same operations. The runner and evaluator drive both
// through identical code paths, so a scenario can report a hazard and its
// fix without duplicating any harness logic.
//
// The racy forms are deliberately wrong. Their mutation methods are
// decomposed into discrete read / compute / write steps so that concurrent
// interleavings have observable effects: lost counter increments, torn
// collection updates, a ready flag raised before its payload pointer is
// visible, and a stack top that returns to a previous identity between two
// reads.
//
// A fixture instance is exclusively owned by a single scenario run. It is
// created at scenario start, mutated concurrently until the runner's join
// barrier, read exactly once by the evaluator, and discarded.
package fixture
