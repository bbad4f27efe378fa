package fixture

import "sync/atomic"

// Counter is the capability shared by the racy and atomic counters.
type Counter interface {
	Increment()
	Value() int64
}

// RacyCounter is an intentionally unsynchronized counter.
//
// Increment is a non-atomic read-modify-write: another goroutine can
// interleave between the read and the write-back and have its update
// overwritten.
type RacyCounter struct {
	count int64
}

// NewRacyCounter creates a counter starting at zero.
func NewRacyCounter() *RacyCounter {
	return &RacyCounter{}
}

// Increment bumps the counter in three separate steps.
func (c *RacyCounter) Increment() {
	temp := c.count // read into a worker-local temporary
	temp++          // modify
	c.count = temp  // write back
}

// Value reads the counter without synchronization. Only meaningful after
// every writer has passed the runner's join barrier.
func (c *RacyCounter) Value() int64 {
	return c.count
}

// AtomicCounter is the safe counterpart of RacyCounter. The read-modify-
// write collapses into a single atomic add, so no update can be lost.
type AtomicCounter struct {
	count atomic.Int64
}

// NewAtomicCounter creates a counter starting at zero.
func NewAtomicCounter() *AtomicCounter {
	return &AtomicCounter{}
}

// Increment bumps the counter atomically.
func (c *AtomicCounter) Increment() {
	c.count.Add(1)
}

// Value reads the counter atomically.
func (c *AtomicCounter) Value() int64 {
	return c.count.Load()
}
