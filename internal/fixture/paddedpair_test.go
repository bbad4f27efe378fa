package fixture

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestPaddedPair_LayoutSeparatesCounters(t *testing.T) {
	p := PaddedPair{}
	gap := uintptr(unsafe.Pointer(&p.b)) - uintptr(unsafe.Pointer(&p.a))
	assert.GreaterOrEqual(t, int(gap), cacheLineSize,
		"padded counters must sit at least one cache line apart")
}

func TestSharedLinePair_LayoutSharesLine(t *testing.T) {
	p := SharedLinePair{}
	gap := uintptr(unsafe.Pointer(&p.b)) - uintptr(unsafe.Pointer(&p.a))
	assert.Less(t, int(gap), cacheLineSize,
		"unpadded counters must share a contention unit")
}

func TestPairCounters_SingleWriterPerFieldExact(t *testing.T) {
	for _, pair := range []PairCounters{NewSharedLinePair(), NewPaddedPair()} {
		const ops = 50000
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < ops; i++ {
				pair.IncA()
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < ops; i++ {
				pair.IncB()
			}
		}()
		wg.Wait()

		a, b := pair.Values()
		// Padding affects throughput, never correctness, when each field
		// has a single writer.
		assert.Equal(t, int64(ops), a)
		assert.Equal(t, int64(ops), b)
	}
}
