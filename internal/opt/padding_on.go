//go:build !(amd64 || 386 || arm || mips || mipsle || wasm) && !metered_disable_padding && !metered_enable_padding

package opt

// CounterPad_ fills the rest of the cache line after a hot 8-byte counter.
// Padding is automatically enabled for architectures that are NOT:
// - amd64 (x86_64): Hardware optimizations often make padding less critical
// - 32-bit architectures (386, arm, mips, mipsle, wasm): Smaller cache lines/memory constraints
//
// Enabled for: arm64, s390x, ppc64, ppc64le, riscv64, loong64, mips64, mips64le, etc.
type CounterPad_ [(CacheLineSize_ - 8%CacheLineSize_) % CacheLineSize_]byte

const Padded_ = true
