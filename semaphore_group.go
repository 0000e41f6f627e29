package metered

import (
	"time"

	"github.com/llxisdsh/pb"
)

// SemaphoreGroup bounds concurrency per key (host name, tenant, file, ...).
// Every key gets its own CountingSemaphore with the same capacity and
// backoff, created on first use.
//
// Usage:
//
//	g := NewSemaphoreGroup[string](2, time.Millisecond)
//	guard := g.Acquire("example.com")
//	defer guard.Release()
//
// Semaphores are never removed from the group, so the key space should be
// bounded. A SemaphoreGroup must be created with NewSemaphoreGroup.
//
// The pb map backing the group reads its buckets without atomics on some
// platforms, so the race detector reports concurrent use of a group.
type SemaphoreGroup[K comparable] struct {
	_       noCopy
	max     int64
	backoff time.Duration
	options []func(*SemaphoreConfig)
	m       pb.MapOf[K, *CountingSemaphore]
}

// NewSemaphoreGroup creates a group whose semaphores have max permits each.
// The options apply to every semaphore of the group.
//
// panic if max <= 0 or backoff < 0.
func NewSemaphoreGroup[K comparable](
	max int64,
	backoff time.Duration,
	options ...func(*SemaphoreConfig),
) *SemaphoreGroup[K] {
	mustValidate(max, backoff)
	return &SemaphoreGroup[K]{max: max, backoff: backoff, options: options}
}

// Semaphore returns the semaphore of k, creating it if needed.
// Concurrent callers always get the same instance for the same key.
func (g *SemaphoreGroup[K]) Semaphore(k K) *CountingSemaphore {
	s, _ := g.m.ProcessEntry(
		k,
		func(l *pb.EntryOf[K, *CountingSemaphore]) (*pb.EntryOf[K, *CountingSemaphore], *CountingSemaphore, bool) {
			if l != nil {
				return l, l.Value, true
			}
			s := NewCountingSemaphore(g.max, g.backoff, g.options...)
			return &pb.EntryOf[K, *CountingSemaphore]{Value: s}, s, false
		},
	)
	return s
}

// Acquire takes one permit of k's semaphore, waiting as long as needed.
func (g *SemaphoreGroup[K]) Acquire(k K) *Guard {
	return g.Semaphore(k).Acquire()
}

// TryAcquire takes one permit of k's semaphore without waiting.
func (g *SemaphoreGroup[K]) TryAcquire(k K) (*Guard, bool) {
	return g.Semaphore(k).TryAcquire()
}

// Count returns the available permits of k. Keys that were never used
// report the full capacity and are not created.
func (g *SemaphoreGroup[K]) Count(k K) int64 {
	if s, ok := g.m.Load(k); ok {
		return s.Count()
	}
	return g.max
}

// Max returns the capacity of every semaphore in the group.
func (g *SemaphoreGroup[K]) Max() int64 {
	return g.max
}

// Range calls fn for every key that has a semaphore, until fn returns false.
func (g *SemaphoreGroup[K]) Range(fn func(k K, s *CountingSemaphore) bool) {
	g.m.Range(fn)
}
