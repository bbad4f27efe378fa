package fixture

import "sync"

// CollectionSnapshot is the evaluator's read of a collection after all
// workers have joined.
type CollectionSnapshot struct {
	Len     int   `json:"len"`
	Sum     int64 `json:"sum"`
	Toggled bool  `json:"toggled"`
}

// Collection is the capability shared by the racy and locked collections.
type Collection interface {
	Add(v int64)
	Snapshot() CollectionSnapshot
}

// RacyCollection groups a growable slice, a running sum, and a flag that
// Add updates in three independent, unsynchronized steps. Under concurrent
// growth an Add can lose its append, lose its sum contribution, or leave
// the flag out of phase with the number of adds.
type RacyCollection struct {
	items   []int64
	sum     int64
	toggled bool
}

// NewRacyCollection creates an empty collection.
func NewRacyCollection() *RacyCollection {
	return &RacyCollection{}
}

// Add appends v, folds it into the sum, and flips the flag. The three
// updates are deliberately not atomic with respect to each other.
func (c *RacyCollection) Add(v int64) {
	c.items = append(c.items, v)
	c.sum += v
	c.toggled = !c.toggled
}

// Snapshot reads the collection without synchronization. Only meaningful
// after every writer has passed the runner's join barrier.
func (c *RacyCollection) Snapshot() CollectionSnapshot {
	return CollectionSnapshot{Len: len(c.items), Sum: c.sum, Toggled: c.toggled}
}

// LockedCollection is the safe counterpart of RacyCollection. One mutex
// covers all three updates, so an Add is observed entirely or not at all.
type LockedCollection struct {
	mu      sync.Mutex
	items   []int64
	sum     int64
	toggled bool
}

// NewLockedCollection creates an empty collection.
func NewLockedCollection() *LockedCollection {
	return &LockedCollection{}
}

// Add appends v, folds it into the sum, and flips the flag under the lock.
func (c *LockedCollection) Add(v int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, v)
	c.sum += v
	c.toggled = !c.toggled
}

// Snapshot reads the collection under the lock.
func (c *LockedCollection) Snapshot() CollectionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CollectionSnapshot{Len: len(c.items), Sum: c.sum, Toggled: c.toggled}
}
