//go:build metered_enable_padding

package opt

// CounterPad_ fills the rest of the cache line after a hot 8-byte counter.
// Padding is force-enabled via the metered_enable_padding build tag.
// Use: go build -tags=metered_enable_padding
type CounterPad_ [(CacheLineSize_ - 8%CacheLineSize_) % CacheLineSize_]byte

const Padded_ = true
