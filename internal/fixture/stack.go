package fixture

// Node is a raw linked-stack node. Nothing about it distinguishes a node
// that was popped and pushed back from one that never moved; pointer
// identity is all a reader has.
type Node struct {
	Value int64
	Next  *Node
}

// RacyStack is a singly linked stack with no synchronization and no
// version tag on top. Push and Pop re-link top in separate, unprotected
// steps.
//
// The stack keeps a count of completed structural operations. That count
// is the structural identity marker the evaluator cross-checks against
// pointer equality: when the same node is back on top but the count has
// moved, an ABA exchange happened in between.
type RacyStack struct {
	top *Node
	ops int64
}

// NewRacyStack creates a stack whose top is the first of values.
func NewRacyStack(values ...int64) *RacyStack {
	s := &RacyStack{}
	for i := len(values) - 1; i >= 0; i-- {
		s.Push(values[i])
	}
	return s
}

// Push links a new node in front of top.
func (s *RacyStack) Push(v int64) {
	n := &Node{Value: v}
	n.Next = s.top
	s.top = n
	s.ops++
}

// PushNode re-links an existing node, preserving its identity. The ABA
// mutator uses this to put a popped node back at the same address.
func (s *RacyStack) PushNode(n *Node) {
	n.Next = s.top
	s.top = n
	s.ops++
}

// Pop unlinks and returns the top node, or nil when the stack is empty.
func (s *RacyStack) Pop() *Node {
	n := s.top
	if n == nil {
		return nil
	}
	s.top = n.Next
	s.ops++
	return n
}

// Top returns the current top node without unlinking it.
func (s *RacyStack) Top() *Node {
	return s.top
}

// Generation counts completed pushes and pops.
func (s *RacyStack) Generation() int64 {
	return s.ops
}
