package fixture

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRacyPublishCell_Sequential(t *testing.T) {
	c := NewRacyPublishCell()

	ready, present := c.Observe()
	assert.False(t, ready)
	assert.False(t, present)

	c.Publish(42)

	ready, present = c.Observe()
	assert.True(t, ready)
	assert.True(t, present)
	assert.Equal(t, int64(42), c.Read())
}

func TestSafePublishCell_ReadyImpliesPayload(t *testing.T) {
	// The safe cell must never expose ready == true with an absent
	// payload, no matter how the observer interleaves with the producer.
	c := NewSafePublishCell()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.Publish(7)
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			ready, present := c.Observe()
			if ready {
				require.True(t, present, "ready observed without payload")
				require.Equal(t, int64(7), c.Read())
				return
			}
		}
	}()
	wg.Wait()
}

func TestPublishCellInterface(t *testing.T) {
	var _ PublishCell = NewRacyPublishCell()
	var _ PublishCell = NewSafePublishCell()
}
