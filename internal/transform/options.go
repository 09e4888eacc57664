// Package transform implements the program transformation engine:
// constant folding, symbolic propagation, index-access resolution,
// speculative full loop unrolling with rollback, and If-folding/
// multiplexing, run as a single stateful pre-order/bottom-up visitor
// over internal/walk.
package transform

// Options carries the engine's tunable knobs. A zero
// Options is not valid; use DefaultOptions and override selectively.
type Options struct {
	// MaxUnrollIterations bounds how many concrete iterations a single
	// For loop may be speculatively unrolled to before the engine gives
	// up and leaves the loop structurally intact.
	MaxUnrollIterations int
	// MaxNestedUnrollings bounds the speculative-unrolling recursion
	// depth across nested For loops, so a pathological program can't
	// make the engine unroll an exponential number of inner iterations.
	MaxNestedUnrollings int
	// InlineCallNodeThreshold is the maximum descendant-node count a
	// single-site callee may have and still be inlined at its one call
	// site.
	InlineCallNodeThreshold int
	// ConeRewriterEnabled gates whether RunFunction also invokes the cone
	// rewriter after the transformation engine converges.
	ConeRewriterEnabled bool
}

// DefaultOptions matches stated defaults.
func DefaultOptions() Options {
	return Options{
		MaxUnrollIterations:     1 << 20,
		MaxNestedUnrollings:     4,
		InlineCallNodeThreshold: 20,
		ConeRewriterEnabled:     false,
	}
}
