package parallel

import "runtime"
import "sync"

import "github.com/klauspost/cpuid/v2"

// DefaultLimit returns the number of logical cores, as reported by cpuid, or
// runtime.NumCPU when cpuid cannot tell.
func DefaultLimit() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// ForEach calls body for every i in [0, length), running at most limit bodies
// at once. A limit of zero or less means DefaultLimit().
func ForEach(length, limit int, body func(i int)) {
	if length <= 0 {
		return
	}
	if limit <= 0 {
		limit = DefaultLimit()
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			body(i)
		}(i)
	}

	wg.Wait()
}
