package metered

import "sync/atomic"

// Guard is one held permit of a CountingSemaphore.
//
// It is only created by a successful acquisition and gives its permit back
// exactly once, on Release. Pass it around as *Guard; copying the struct
// would duplicate the obligation to release.
type Guard struct {
	sem      *CountingSemaphore
	released atomic.Bool
}

func newGuard(s *CountingSemaphore) *Guard {
	return &Guard{sem: s}
}

// Release returns the permit to the semaphore.
//
// panic if the Guard was already released.
func (g *Guard) Release() {
	if !g.released.CompareAndSwap(false, true) {
		panic("metered: Guard released twice")
	}
	g.sem.release()
}

// Released reports whether Release has been called.
func (g *Guard) Released() bool {
	return g.released.Load()
}
