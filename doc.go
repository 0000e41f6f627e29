// Package metered provides a spin-wait counting semaphore.
//
// A CountingSemaphore hands out at most max permits at a time. Acquire never
// parks the calling goroutine: when no permit is available it sleeps for a
// linearly growing interval (unit, 2*unit, 3*unit, ...) and tries again with
// a compare-and-swap. Every permit is represented by a Guard, which gives it
// back exactly once:
//
//	sem := metered.NewCountingSemaphore(4, time.Millisecond)
//	g := sem.Acquire()
//	defer g.Release()
//
// Do wraps that pattern and releases even if the function panics.
//
// There is no FIFO ordering between waiters, no weighted acquisition and no
// cancellation. Use golang.org/x/sync/semaphore when any of those matter.
package metered
