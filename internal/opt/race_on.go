//go:build race

package opt

// Race_ reports whether the race detector is enabled. Timing-sensitive
// tests use it to relax their deadlines.
const Race_ = true
