package metered

import "time"

// Backoff produces linearly growing wait intervals: unit, 2*unit, 3*unit, ...
//
// If limit is positive, intervals are clamped to limit and stop growing once
// they reach it. The zero Backoff always returns 0.
type Backoff struct {
	unit  time.Duration
	limit time.Duration
	next  time.Duration
}

// NewBackoff returns a Backoff whose first interval is unit.
func NewBackoff(unit, limit time.Duration) Backoff {
	return Backoff{unit: unit, limit: limit, next: unit}
}

// Next returns the current interval and advances to the following one.
func (b *Backoff) Next() time.Duration {
	d := b.next
	if b.limit > 0 && d >= b.limit {
		return b.limit
	}
	b.next += b.unit
	return d
}

// Reset rewinds the sequence to its first interval.
func (b *Backoff) Reset() {
	b.next = b.unit
}
