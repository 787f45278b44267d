package semcheck

import "errors"

// Sentinel errors for semantic-checker findings. Each is wrapped in an
// errkind.Error (class ParseSemantic) by the pass that raises it, carrying
// the offending source line and, for circularity, the atom stack.
//
// Usage: compare with errors.Is against the *errkind.Error's Unwrap() value,
// never by string matching.
var (
	// ErrMultipleAssignment indicates two assignments share the same
	// canonical LHS.
	ErrMultipleAssignment = errors.New("semcheck: multiple assignment to same left-hand side")

	// ErrCircularDefinition indicates a back-edge into an OPEN vertex while
	// walking the define/assignment dependency graph.
	ErrCircularDefinition = errors.New("semcheck: recursively defined")

	// ErrNestedNext indicates next(next(...)) anywhere in an expression.
	ErrNestedNext = errors.New("semcheck: nested next is not allowed")

	// ErrUnexpectedNext indicates a NEXT node where the grammar position
	// does not permit one.
	ErrUnexpectedNext = errors.New("semcheck: next not allowed in this position")

	// ErrInputInDisallowedPosition indicates an input variable referenced
	// from a Context that forbids it.
	ErrInputInDisallowedPosition = errors.New("semcheck: input variable in disallowed position")
)
