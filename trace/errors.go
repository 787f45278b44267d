package trace

import "errors"

// Sentinel errors for trace synthesis.
var (
	// ErrUnreachable is returned when a seed state's distance cannot be
	// located in the FSM's recorded reachability layering.
	ErrUnreachable = errors.New("trace: seed state is not in the reachable-state layering")
	// ErrNoPredecessor is returned when a layer's backward image does not
	// intersect the expected predecessor layer — a precomputed reachability
	// layering is inconsistent with the transition relation it was built
	// from, which should not happen outside of caller error.
	ErrNoPredecessor = errors.New("trace: no predecessor found in expected layer")
	// ErrNoInput is returned when no input cube drives a chosen pair of
	// consecutive states, for the same reason as ErrNoPredecessor.
	ErrNoInput = errors.New("trace: no input cube found between chosen states")
)
