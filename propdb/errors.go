package propdb

import "errors"

// Sentinel errors for database operations.
//
// Usage: returned wrapped (%w) with the property index or formula attached
// where that helps locate the offender.
var (
	// ErrNoSuchProperty reports an index outside [0, Len).
	ErrNoSuchProperty = errors.New("propdb: no property with that index")
	// ErrBadKind reports a property created with KindNoType or an unknown
	// kind value.
	ErrBadKind = errors.New("propdb: property kind is not one of CTL/LTL/INVAR/COMPUTE/PSL")
	// ErrPSLUnsupported reports a PSL property that mixes CTL and LTL
	// operators, which the lazy lowering cannot classify either way.
	ErrPSLUnsupported = errors.New("propdb: PSL property mixes branching and linear operators")
	// ErrNotCompute reports a COMPUTE property whose body is not a MIN or
	// MAX node.
	ErrNotCompute = errors.New("propdb: COMPUTE property body must be MIN[...] or MAX[...]")
	// ErrBadBound reports a bounded CTL operator whose bound pair is not a
	// COLON node over two numeric leaves.
	ErrBadBound = errors.New("propdb: bounded operator needs numeric bounds l..u")
	// ErrSolverFailed reports a SAT-backed INVAR check that ended in
	// Timeout, Memout or an internal solver failure; the property is left
	// Unchecked and other properties still run.
	ErrSolverFailed = errors.New("propdb: solver did not decide the property")
)
