package metered_test

import (
	"fmt"
	"time"

	"github.com/llxisdsh/metered"
)

func Example() {
	sem := metered.NewCountingSemaphore(2, time.Millisecond)
	fmt.Println("Created:", sem)

	// Pair Acquire with a deferred Release so the permit comes back on
	// every exit path.
	g := sem.Acquire()
	fmt.Println("After Acquire:", sem)

	if g2, ok := sem.TryAcquire(); ok {
		fmt.Println("After TryAcquire:", sem)
		g2.Release()
	}

	g.Release()
	fmt.Println("After Release:", sem)

	sem.Do(func() {
		fmt.Println("Inside Do:", sem)
	})
	fmt.Println("After Do:", sem)

	// Output:
	// Created: CountingSemaphore(2/2)
	// After Acquire: CountingSemaphore(1/2)
	// After TryAcquire: CountingSemaphore(0/2)
	// After Release: CountingSemaphore(2/2)
	// Inside Do: CountingSemaphore(1/2)
	// After Do: CountingSemaphore(2/2)
}

func ExampleSemaphoreGroup() {
	hosts := metered.NewSemaphoreGroup[string](1, time.Millisecond)

	g := hosts.Acquire("example.com")
	_, busy := hosts.TryAcquire("example.com")
	other, ok := hosts.TryAcquire("example.org")
	fmt.Println("example.com free:", busy)
	fmt.Println("example.org free:", ok)
	other.Release()
	g.Release()

	// Output:
	// example.com free: false
	// example.org free: true
}
