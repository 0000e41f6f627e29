package metered

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/llxisdsh/metered/internal/opt"
)

// CountingSemaphore bounds the number of goroutines holding one of its
// max permits at the same time.
//
// It never parks a goroutine. A caller that finds no permit available, or
// loses a compare-and-swap race, sleeps for a linearly growing interval and
// tries again. There is no wait queue, so there is no fairness: whichever
// waiter wakes up first after a release may take the permit.
//
// A CountingSemaphore must not be copied after first use. Share it by
// pointer; it stays alive for as long as any Guard refers to it.
type CountingSemaphore struct {
	_ noCopy
	// count is the number of available permits, always within [0, max].
	count atomic.Int64
	_     opt.CounterPad_

	max   int64
	unit  time.Duration
	limit time.Duration
	sleep func(time.Duration)
}

// NewCountingSemaphore creates a semaphore with max available permits.
// backoff is the unit of the linear backoff Acquire uses under contention.
//
// panic if max <= 0 or backoff < 0. A zero backoff makes Acquire yield the
// processor between attempts instead of sleeping.
func NewCountingSemaphore(
	max int64,
	backoff time.Duration,
	options ...func(*SemaphoreConfig),
) *CountingSemaphore {
	mustValidate(max, backoff)
	c := newSemaphoreConfig(backoff, options)
	s := &CountingSemaphore{
		max:   max,
		unit:  backoff,
		limit: c.maxBackoff,
		sleep: c.sleep,
	}
	s.count.Store(max)
	return s
}

func mustValidate(max int64, backoff time.Duration) {
	if max <= 0 {
		panic("metered: max must be positive")
	}
	if backoff < 0 {
		panic("metered: backoff must not be negative")
	}
}

// Acquire takes one permit, waiting as long as needed, and returns the
// Guard that gives it back.
//
//	g := sem.Acquire()
//	defer g.Release()
//
// Acquire cannot fail and cannot be cancelled. It only returns once a
// permit has been released by some other holder.
func (s *CountingSemaphore) Acquire() *Guard {
	if s.tryDecrement() {
		return newGuard(s)
	}
	return s.slowAcquire()
}

func (s *CountingSemaphore) slowAcquire() *Guard {
	b := NewBackoff(s.unit, s.limit)
	for {
		s.sleep(b.Next())
		if s.tryDecrement() {
			return newGuard(s)
		}
	}
}

// tryDecrement makes a single attempt at claiming a permit.
// It fails if no permit is available or if the CAS lost a race.
func (s *CountingSemaphore) tryDecrement() bool {
	c := s.count.Load()
	if c == 0 {
		return false
	}
	if opt.Debug_ && (c < 0 || c > s.max) {
		panic("metered: count out of range: " + strconv.FormatInt(c, 10))
	}
	return s.count.CompareAndSwap(c, c-1)
}

// TryAcquire takes one permit without waiting.
// It reports false only when no permit was available.
func (s *CountingSemaphore) TryAcquire() (*Guard, bool) {
	for {
		c := s.count.Load()
		if c == 0 {
			return nil, false
		}
		if s.count.CompareAndSwap(c, c-1) {
			return newGuard(s), true
		}
	}
}

// Do runs fn while holding a permit. The permit is released when fn
// returns, including when it panics or calls runtime.Goexit.
func (s *CountingSemaphore) Do(fn func()) {
	g := s.Acquire()
	defer g.Release()
	fn()
}

// Count returns the number of available permits.
// The value may be stale as soon as it is returned; use it for diagnostics
// only.
func (s *CountingSemaphore) Count() int64 {
	return s.count.Load()
}

// Max returns the total number of permits.
func (s *CountingSemaphore) Max() int64 {
	return s.max
}

// String returns "CountingSemaphore(available/max)".
func (s *CountingSemaphore) String() string {
	return "CountingSemaphore(" +
		strconv.FormatInt(s.Count(), 10) + "/" +
		strconv.FormatInt(s.max, 10) + ")"
}

func (s *CountingSemaphore) release() {
	c := s.count.Add(1)
	if opt.Debug_ && c > s.max {
		panic("metered: released more permits than acquired")
	}
}
