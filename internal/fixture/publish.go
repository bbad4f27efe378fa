package fixture

import "sync"

// PublishCell is the capability shared by the racy and safe publish cells.
//
// Publish makes a payload available and raises a ready flag. Read
// dereferences the payload and is only legitimate once Ready reported
// true. Observe reports both fields for the evaluator.
type PublishCell interface {
	Publish(v int64)
	Ready() bool
	Read() int64
	Observe() (ready, present bool)
}

// RacyPublishCell publishes the payload pointer and the ready flag as two
// independent writes with no ordering between them. A consumer that trusts
// the flag can observe ready == true while the payload pointer is still
// nil, and a Read at that instant faults.
type RacyPublishCell struct {
	payload *int64
	ready   bool
}

// NewRacyPublishCell creates an unpublished cell.
func NewRacyPublishCell() *RacyPublishCell {
	return &RacyPublishCell{}
}

// Publish stores the payload, then raises the flag as a second,
// independent step. No barrier orders the two writes.
func (c *RacyPublishCell) Publish(v int64) {
	p := new(int64)
	*p = v
	c.payload = p
	c.ready = true
}

// Ready reads the flag without synchronization.
func (c *RacyPublishCell) Ready() bool {
	return c.ready
}

// Read dereferences the payload. Panics when the flag was observed before
// the pointer store became visible.
func (c *RacyPublishCell) Read() int64 {
	return *c.payload
}

// Observe reports the flag and payload presence at this instant.
func (c *RacyPublishCell) Observe() (ready, present bool) {
	return c.ready, c.payload != nil
}

// SafePublishCell is the safe counterpart: a mutex orders the payload
// store before any observation of the raised flag.
type SafePublishCell struct {
	mu      sync.Mutex
	payload *int64
	ready   bool
}

// NewSafePublishCell creates an unpublished cell.
func NewSafePublishCell() *SafePublishCell {
	return &SafePublishCell{}
}

// Publish stores the payload and raises the flag as one critical section.
func (c *SafePublishCell) Publish(v int64) {
	p := new(int64)
	*p = v
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payload = p
	c.ready = true
}

// Ready reads the flag under the lock.
func (c *SafePublishCell) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Read dereferences the payload under the lock. A reader that saw Ready
// report true is guaranteed a non-nil payload here.
func (c *SafePublishCell) Read() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.payload
}

// Observe reports the flag and payload presence under the lock.
func (c *SafePublishCell) Observe() (ready, present bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready, c.payload != nil
}
