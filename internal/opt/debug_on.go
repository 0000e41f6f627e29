//go:build metered_debug

package opt

// Debug_ enables invariant assertions on the semaphore hot paths.
// Use: go test -tags=metered_debug
const Debug_ = true
