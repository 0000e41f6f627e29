package metered

import (
	"runtime"
	"time"
)

// SemaphoreConfig holds the optional settings of a CountingSemaphore.
type SemaphoreConfig struct {
	// maxBackoff caps a single wait interval of Acquire.
	// Zero leaves the linear growth uncapped.
	maxBackoff time.Duration

	// sleep waits between two acquisition attempts.
	// If nil, time.Sleep is used, or runtime.Gosched when the backoff
	// unit is zero.
	sleep func(time.Duration)
}

// WithMaxBackoff caps every wait interval of Acquire at d.
// Once the linear sequence reaches d it stops growing.
// Zero or negative values are ignored.
func WithMaxBackoff(d time.Duration) func(*SemaphoreConfig) {
	return func(c *SemaphoreConfig) {
		if d > 0 {
			c.maxBackoff = d
		}
	}
}

// WithSleep replaces the function Acquire uses to wait between attempts.
// fn runs on the acquiring goroutine and receives the backoff interval.
//
// It is mostly useful to observe contention, or to drive Acquire
// deterministically in tests.
func WithSleep(fn func(time.Duration)) func(*SemaphoreConfig) {
	return func(c *SemaphoreConfig) {
		c.sleep = fn
	}
}

func newSemaphoreConfig(unit time.Duration, options []func(*SemaphoreConfig)) SemaphoreConfig {
	var c SemaphoreConfig
	for _, o := range options {
		if o != nil {
			o(&c)
		}
	}
	if c.sleep == nil {
		if unit == 0 {
			c.sleep = yield
		} else {
			c.sleep = time.Sleep
		}
	}
	return c
}

func yield(time.Duration) {
	runtime.Gosched()
}
