//go:build (amd64 || 386 || arm || mips || mipsle || wasm) && !metered_disable_padding && !metered_enable_padding

package opt

// CounterPad_ is empty by default for:
// - amd64
// - 32-bit architectures (386, arm, mips, mipsle, wasm)
type CounterPad_ struct{}

const Padded_ = false
