// Package parallel contains the bounded ForEach and the LoopUntil search loop
// used to run independent gradient checks concurrently.
package parallel

import "math"
import "sync"
import "sync/atomic"

// LoopStopper reports whether a loop has been asked to stop.
type LoopStopper interface {
	Load() bool
}

// Loop is the number of goroutines LoopUntil runs.
type Loop int

// LoopUntil runs l goroutines which pull unique indices 0, 1, 2, ... and pass
// them to yield until a yield returns true or the indices run out.
//
// Indices are taken in increasing order and a taken index is always yielded,
// even when another goroutine stops the loop meanwhile. When LoopUntil returns,
// every index below the one that stopped it has therefore been yielded.
func (l Loop) LoopUntil(yield func(i uint32, ender LoopStopper) bool) {
	if l <= 0 {
		l = Loop(DefaultLimit())
	}
	var (
		next  uint32
		ender atomic.Bool
		wg    sync.WaitGroup
	)
	wg.Add(int(l))
	for n := 0; n < int(l); n++ {
		go func() {
			defer wg.Done()
			for !ender.Load() {
				i := atomic.AddUint32(&next, 1)
				if i == math.MaxUint32 {
					ender.Store(true)
					return
				}
				// yield even if stopped meanwhile, see above
				if yield(i-1, &ender) {
					ender.Store(true)
					return
				}
			}
		}()
	}
	wg.Wait()
}
