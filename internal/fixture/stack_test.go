package fixture

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRacyStack_PushPopOrder(t *testing.T) {
	s := NewRacyStack(1, 2)

	require.NotNil(t, s.Top())
	assert.Equal(t, int64(1), s.Top().Value)
	assert.Equal(t, int64(2), s.Generation(), "seeding counts as two pushes")

	n := s.Pop()
	require.NotNil(t, n)
	assert.Equal(t, int64(1), n.Value)
	assert.Equal(t, int64(2), s.Top().Value)
	assert.Equal(t, int64(3), s.Generation())
}

func TestRacyStack_PopEmpty(t *testing.T) {
	s := NewRacyStack()
	assert.Nil(t, s.Pop())
	assert.Equal(t, int64(0), s.Generation(), "failed pop must not advance the generation")
}

func TestRacyStack_ABAExchangeRestoresIdentity(t *testing.T) {
	// Pop the head and re-link the same node: pointer identity is
	// restored, but the generation records that the structure moved.
	s := NewRacyStack(1, 2)
	before := s.Top()
	genBefore := s.Generation()

	n := s.Pop()
	s.PushNode(n)

	assert.Same(t, before, s.Top(), "the exchanged node is indistinguishable by pointer")
	assert.Equal(t, genBefore+2, s.Generation(), "the generation exposes the exchange")
}

func TestTaggedStack_PushPop(t *testing.T) {
	s := NewTaggedStack(8, 1, 2)

	idx, gen := s.Top()
	assert.Equal(t, int64(1), s.Value(idx))
	assert.Equal(t, uint32(2), gen)

	popped, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, idx, popped)

	idx2, _ := s.Top()
	assert.Equal(t, int64(2), s.Value(idx2))
}

func TestTaggedStack_PopEmpty(t *testing.T) {
	s := NewTaggedStack(4)
	_, ok := s.Pop()
	assert.False(t, ok)
}

func TestTaggedStack_ArenaExhaustion(t *testing.T) {
	s := NewTaggedStack(2, 1, 2)
	_, ok := s.Push(3)
	assert.False(t, ok, "arena capacity bounds allocation")
}

func TestTaggedStack_ABAExchangeMovesHandle(t *testing.T) {
	// The same arena index back on top still yields a different handle,
	// because the generation advanced. An observer comparing full handles
	// cannot be fooled.
	s := NewTaggedStack(8, 1, 2)
	idxBefore, genBefore := s.Top()

	popped, ok := s.Pop()
	require.True(t, ok)
	s.PushIndex(popped)

	idxAfter, genAfter := s.Top()
	assert.Equal(t, idxBefore, idxAfter, "identity restored")
	assert.NotEqual(t, genBefore, genAfter, "generation must expose the exchange")
	assert.Equal(t, genBefore+2, genAfter)
}

func TestTaggedStack_ConcurrentPushPop(t *testing.T) {
	// Hammer the CAS loops from several goroutines; every push must be
	// matched by exactly one successful pop in the drain below. Workers
	// only count their pushes; all assertions happen on the test
	// goroutine after the join.
	const workers, ops = 4, 500
	s := NewTaggedStack(workers * ops)

	var pushed atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < ops; i++ {
				if _, ok := s.Push(int64(w*ops + i)); ok {
					pushed.Add(1)
				}
			}
		}(w)
	}
	wg.Wait()
	require.Equal(t, int64(workers*ops), pushed.Load(), "the arena is sized for every push to land")

	seen := 0
	for {
		if _, ok := s.Pop(); !ok {
			break
		}
		seen++
	}
	assert.Equal(t, workers*ops, seen)
}
