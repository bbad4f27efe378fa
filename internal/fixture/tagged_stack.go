package fixture

import "sync/atomic"

// nilIndex marks the empty stack and the end of the chain inside the
// arena.
const nilIndex = ^uint32(0)

// TaggedStack is the safe counterpart of RacyStack.
//
// Nodes live in a fixed arena addressed by stable indices, and top is a
// packed (index, generation) handle updated by compare-and-swap. Every
// successful push or pop bumps the generation, so a node removed and
// reinserted yields a handle that can never compare equal to the one an
// observer recorded earlier. The generation is a first-class, inspectable
// field rather than an artifact of pointer identity.
type TaggedStack struct {
	top   atomic.Uint64
	used  atomic.Uint32
	nodes []taggedNode
}

type taggedNode struct {
	value int64
	next  uint32
}

// packHandle packs an arena index and a generation into one CAS-able word.
func packHandle(idx, gen uint32) uint64 {
	return uint64(gen)<<32 | uint64(idx)
}

// unpackHandle splits a handle back into index and generation.
func unpackHandle(h uint64) (idx, gen uint32) {
	return uint32(h), uint32(h >> 32)
}

// NewTaggedStack creates a stack backed by an arena of the given capacity
// and pushes values so the first value ends up on top.
func NewTaggedStack(capacity int, values ...int64) *TaggedStack {
	if capacity < len(values) {
		capacity = len(values)
	}
	s := &TaggedStack{nodes: make([]taggedNode, capacity)}
	s.top.Store(packHandle(nilIndex, 0))
	for i := len(values) - 1; i >= 0; i-- {
		s.Push(values[i])
	}
	return s
}

// Push allocates a node from the arena and links it on top. Reports false
// when the arena is exhausted.
func (s *TaggedStack) Push(v int64) (idx uint32, ok bool) {
	i := s.used.Add(1) - 1
	if int(i) >= len(s.nodes) {
		return 0, false
	}
	s.nodes[i].value = v
	s.pushIndex(i)
	return i, true
}

// PushIndex re-links a previously popped node by its stable arena index.
// Identity is preserved, but the generation still advances.
func (s *TaggedStack) PushIndex(idx uint32) {
	s.pushIndex(idx)
}

func (s *TaggedStack) pushIndex(idx uint32) {
	for {
		old := s.top.Load()
		topIdx, gen := unpackHandle(old)
		s.nodes[idx].next = topIdx
		if s.top.CompareAndSwap(old, packHandle(idx, gen+1)) {
			return
		}
	}
}

// Pop unlinks the top node and returns its arena index. Reports false
// when the stack is empty.
func (s *TaggedStack) Pop() (idx uint32, ok bool) {
	for {
		old := s.top.Load()
		topIdx, gen := unpackHandle(old)
		if topIdx == nilIndex {
			return 0, false
		}
		// Arena nodes are never freed, so reading next is safe even if
		// another goroutine wins the CAS below.
		next := s.nodes[topIdx].next
		if s.top.CompareAndSwap(old, packHandle(next, gen+1)) {
			return topIdx, true
		}
	}
}

// Top returns the current handle: the top node's arena index and the
// generation at this instant. Comparing full handles, not just indices,
// is what defeats ABA.
func (s *TaggedStack) Top() (idx, gen uint32) {
	return unpackHandle(s.top.Load())
}

// Value reads the payload of a node by its arena index.
func (s *TaggedStack) Value(idx uint32) int64 {
	return s.nodes[idx].value
}

// Generation reads the current generation.
func (s *TaggedStack) Generation() int64 {
	_, gen := unpackHandle(s.top.Load())
	return int64(gen)
}
