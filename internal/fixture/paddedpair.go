package fixture

import "sync/atomic"

// cacheLineSize is the contention unit the padded pair separates its
// counters by. 64 bytes covers current x86-64 and most arm64 parts.
const cacheLineSize = 64

// PairCounters is the capability shared by the padded and unpadded pairs.
// Each counter has exactly one writer, so the final values are exact; the
// variants differ only in memory layout.
type PairCounters interface {
	IncA()
	IncB()
	Values() (a, b int64)
}

// SharedLinePair places both counters adjacently, inside one cache-
// coherence unit. Two cores incrementing their own field still invalidate
// each other's cache line on every write. This is the false-sharing case:
// a throughput problem, not a correctness problem.
type SharedLinePair struct {
	a int64
	b int64
}

// NewSharedLinePair creates an unpadded pair.
func NewSharedLinePair() *SharedLinePair {
	return &SharedLinePair{}
}

// IncA increments the first counter. Atomic so the increment is a real
// store on every iteration rather than a register-resident loop.
func (p *SharedLinePair) IncA() {
	atomic.AddInt64(&p.a, 1)
}

// IncB increments the second counter.
func (p *SharedLinePair) IncB() {
	atomic.AddInt64(&p.b, 1)
}

// Values reads both counters.
func (p *SharedLinePair) Values() (a, b int64) {
	return atomic.LoadInt64(&p.a), atomic.LoadInt64(&p.b)
}

// PaddedPair separates the counters by a full cache line so each core
// keeps exclusive ownership of its own line.
type PaddedPair struct {
	a int64
	_ [cacheLineSize]byte
	b int64
}

// NewPaddedPair creates a padded pair.
func NewPaddedPair() *PaddedPair {
	return &PaddedPair{}
}

// IncA increments the first counter.
func (p *PaddedPair) IncA() {
	atomic.AddInt64(&p.a, 1)
}

// IncB increments the second counter.
func (p *PaddedPair) IncB() {
	atomic.AddInt64(&p.b, 1)
}

// Values reads both counters.
func (p *PaddedPair) Values() (a, b int64) {
	return atomic.LoadInt64(&p.a), atomic.LoadInt64(&p.b)
}
