//go:build !metered_debug

package opt

const Debug_ = false
