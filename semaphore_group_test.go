package metered

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/llxisdsh/metered/internal/opt"
)

func TestSemaphoreGroup_PerKey(t *testing.T) {
	g := NewSemaphoreGroup[string](1, time.Millisecond)
	if g.Count("a") != 1 {
		t.Fatalf("count(a) = %d, want 1", g.Count("a"))
	}

	ga := g.Acquire("a")
	if _, ok := g.TryAcquire("a"); ok {
		t.Fatal("TryAcquire(a) succeeded when empty")
	}
	gb, ok := g.TryAcquire("b")
	if !ok {
		t.Fatal("TryAcquire(b) blocked by key a")
	}
	if g.Count("a") != 0 || g.Count("b") != 0 {
		t.Fatalf("count(a) = %d, count(b) = %d, want 0, 0", g.Count("a"), g.Count("b"))
	}
	ga.Release()
	gb.Release()

	var keys int
	g.Range(func(k string, s *CountingSemaphore) bool {
		keys++
		if s.Count() != 1 {
			t.Errorf("count(%s) = %d, want 1", k, s.Count())
		}
		return true
	})
	if keys != 2 {
		t.Fatalf("keys = %d, want 2", keys)
	}
}

func TestSemaphoreGroup_CountDoesNotCreate(t *testing.T) {
	g := NewSemaphoreGroup[int](3, time.Millisecond)
	_ = g.Count(7)
	g.Range(func(int, *CountingSemaphore) bool {
		t.Fatal("Count created a semaphore")
		return false
	})
}

func TestSemaphoreGroup_SameInstance(t *testing.T) {
	if opt.Race_ {
		t.Skip("skipping test that relies on pb's unsynchronized reads in race mode")
	}
	g := NewSemaphoreGroup[string](2, time.Millisecond)
	const n = 50
	sems := make([]*CountingSemaphore, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func() {
			defer wg.Done()
			sems[i] = g.Semaphore("k")
		}()
	}
	wg.Wait()
	for i := 1; i < n; i++ {
		if sems[i] != sems[0] {
			t.Fatalf("semaphore %d differs from semaphore 0", i)
		}
	}
}

func TestSemaphoreGroup_Concurrent(t *testing.T) {
	if opt.Race_ {
		t.Skip("skipping test that relies on pb's unsynchronized reads in race mode")
	}
	g := NewSemaphoreGroup[int](2, 100*time.Microsecond)
	keys := []int{1, 2, 3}
	var holders [3]atomic.Int64

	const n = 60
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func() {
			defer wg.Done()
			k := i % len(keys)
			guard := g.Acquire(keys[k])
			defer guard.Release()
			if h := holders[k].Add(1); h > g.Max() {
				t.Errorf("key %d: holders = %d, want <= %d", keys[k], h, g.Max())
			}
			time.Sleep(time.Millisecond)
			holders[k].Add(-1)
		}()
	}
	wg.Wait()

	for _, k := range keys {
		if g.Count(k) != 2 {
			t.Fatalf("count(%d) = %d, want 2", k, g.Count(k))
		}
	}
}

func TestSemaphoreGroup_InvalidArguments(t *testing.T) {
	mustPanic(t, "zero max", func() { NewSemaphoreGroup[string](0, time.Millisecond) })
	mustPanic(t, "negative backoff", func() { NewSemaphoreGroup[string](1, -1) })
}
