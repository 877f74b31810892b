package aberration

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForEachChunkCoversRangeOnce(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		workers int
	}{
		{"empty", 0, 4},
		{"small inline", 10, 8},
		{"single worker", 5000, 1},
		{"default workers", 5000, 0},
		{"many workers", 4*minChunk + 3, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make([]int, tt.n)
			var mu sync.Mutex
			calls := 0

			forEachChunk(tt.n, tt.workers, func(lo, hi int) {
				mu.Lock()
				calls++
				mu.Unlock()
				for i := lo; i < hi; i++ {
					hits[i]++
				}
			})

			for i, h := range hits {
				if h != 1 {
					t.Fatalf("index %d visited %d times", i, h)
				}
			}
			assert.GreaterOrEqual(t, calls, 1)
		})
	}
}

func TestForEachChunkLimitsWorkers(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	forEachChunk(2*minChunk, 64, func(lo, hi int) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	assert.Equal(t, 2, calls)
}
