package statecell

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type snapshot struct {
	Fields [4]int
}

// uniform builds a snapshot whose fields all carry the same marker, so a torn
// read is detectable as a mixed snapshot.
func uniform(marker int) snapshot {
	var s snapshot
	for i := range s.Fields {
		s.Fields[i] = marker
	}
	return s
}

func TestSeedDefinesSnapshot(t *testing.T) {
	c := New(uniform(7))
	assert.Equal(t, uniform(7), c.Snapshot())
}

func TestPublishReplacesWholesale(t *testing.T) {
	c := New(uniform(0))
	c.Publish(uniform(1))
	c.Publish(uniform(2))
	assert.Equal(t, uniform(2), c.Snapshot())
}

func TestNoTornSnapshots(t *testing.T) {
	const cycles = 1000

	c := New(uniform(0))
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= cycles; i++ {
			c.Publish(uniform(i))
		}
	}()

	for r := 0; r < 2; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			last := 0
			for i := 0; i < cycles; i++ {
				s := c.Snapshot()
				for _, f := range s.Fields {
					if !assert.Equal(t, s.Fields[0], f, "torn snapshot: %v", s) {
						return
					}
				}
				// Publishes are observed in order.
				if !assert.GreaterOrEqual(t, s.Fields[0], last) {
					return
				}
				last = s.Fields[0]
			}
		}()
	}

	wg.Wait()
}
