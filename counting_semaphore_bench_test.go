package metered

import (
	"context"
	"testing"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/llxisdsh/metered/internal/opt"
)

// Uncontended acquire/release, compared with x/sync.

func BenchmarkCountingSemaphore_Uncontended(b *testing.B) {
	s := NewCountingSemaphore(1, time.Microsecond)
	for b.Loop() {
		s.Acquire().Release()
	}
}

func BenchmarkWeighted_Uncontended(b *testing.B) {
	s := semaphore.NewWeighted(1)
	ctx := context.Background()
	for b.Loop() {
		_ = s.Acquire(ctx, 1)
		s.Release(1)
	}
}

// Parallel acquire/release with fewer permits than goroutines.

func BenchmarkCountingSemaphore_Contended(b *testing.B) {
	s := NewCountingSemaphore(4, time.Microsecond)
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			s.Acquire().Release()
		}
	})
}

func BenchmarkWeighted_Contended(b *testing.B) {
	s := semaphore.NewWeighted(4)
	ctx := context.Background()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = s.Acquire(ctx, 1)
			s.Release(1)
		}
	})
}

func BenchmarkCountingSemaphore_TryAcquire(b *testing.B) {
	s := NewCountingSemaphore(4, time.Microsecond)
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if g, ok := s.TryAcquire(); ok {
				g.Release()
			}
		}
	})
}

func BenchmarkSemaphoreGroup_Acquire(b *testing.B) {
	if opt.Race_ {
		b.Skip("skipping benchmark that relies on pb's unsynchronized reads in race mode")
	}
	g := NewSemaphoreGroup[int](4, time.Microsecond)
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			g.Acquire(i & 15).Release()
			i++
		}
	})
}
