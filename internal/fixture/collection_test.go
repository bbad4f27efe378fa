package fixture

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRacyCollection_SingleWriter(t *testing.T) {
	c := NewRacyCollection()
	for i := int64(0); i < 100; i++ {
		c.Add(i)
	}

	snap := c.Snapshot()
	assert.Equal(t, 100, snap.Len)
	assert.Equal(t, int64(4950), snap.Sum)
	// 100 flips from false lands back on false.
	assert.False(t, snap.Toggled)
}

func TestLockedCollection_ConcurrentWritersExact(t *testing.T) {
	c := NewLockedCollection()
	const workers, ops = 8, 500

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := int64(0); i < ops; i++ {
				c.Add(i)
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.Equal(t, workers*ops, snap.Len)
	assert.Equal(t, int64(workers)*ops*(ops-1)/2, snap.Sum)
	// An even number of total flips must land back on false.
	assert.False(t, snap.Toggled)
}

func TestCollectionInterface(t *testing.T) {
	var _ Collection = NewRacyCollection()
	var _ Collection = NewLockedCollection()
}
