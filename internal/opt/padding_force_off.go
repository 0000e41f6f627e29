//go:build metered_disable_padding && !metered_enable_padding

package opt

// CounterPad_ is empty.
// Padding is force-disabled via the metered_disable_padding build tag.
// Use: go build -tags=metered_disable_padding
type CounterPad_ struct{}

const Padded_ = false
