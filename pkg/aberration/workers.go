package aberration

import (
	"runtime"
	"sync"
)

// minChunk is the smallest vertex range handed to a goroutine.
const minChunk = 512

// forEachChunk splits [0, n) into disjoint contiguous ranges and calls fn
// for each, concurrently when workers allows it.
func forEachChunk(n, workers int, fn func(lo, hi int)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if limit := n / minChunk; workers > limit {
		workers = limit
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(lo, hi)
		}()
	}
	wg.Wait()
}
