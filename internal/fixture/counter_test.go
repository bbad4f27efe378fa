package fixture

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRacyCounter_SingleWriter(t *testing.T) {
	c := NewRacyCounter()
	for i := 0; i < 1000; i++ {
		c.Increment()
	}
	// No concurrency means no race: the count must be exact.
	assert.Equal(t, int64(1000), c.Value())
}

func TestAtomicCounter_ConcurrentWritersExact(t *testing.T) {
	c := NewAtomicCounter()
	const workers, ops = 8, 2000

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < ops; i++ {
				c.Increment()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(workers*ops), c.Value())
}

func TestCounterInterface(t *testing.T) {
	// Both variants must be drivable through the same code path.
	var _ Counter = NewRacyCounter()
	var _ Counter = NewAtomicCounter()
}
