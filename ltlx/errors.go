package ltlx

import "errors"

// Sentinel errors for the LTL tableau pass.
//
// Usage: returned wrapped (%w) with the offending subformula or variable
// name attached, so callers can branch with errors.Is while still seeing
// the concrete context in the message.
var (
	// ErrBothSidesInput reports a relational subformula comparing two input
	// variables directly; the rewrite expands one side at a time and a
	// doubly-input comparison survives as an input-vs-input residue the
	// second expansion pass must have eliminated — seeing it here means the
	// formula nests inputs deeper than the rewrite supports.
	ErrBothSidesInput = errors.New("ltlx: relational subformula compares two input variables")
	// ErrBareInputAtom reports a multi-valued input variable used as a bare
	// Boolean atom; only width-1 inputs may appear outside a relational
	// operator.
	ErrBareInputAtom = errors.New("ltlx: multi-valued input variable used as a boolean atom")
	// ErrNoWitness reports a non-empty feasible set from which no single
	// witness state could be drawn — a manager-level inconsistency.
	ErrNoWitness = errors.New("ltlx: feasible set yielded no witness state")
	// ErrNoFairCycle reports that the witness builder could not close a
	// fair cycle from the seed state; the fair-state fixpoint guarantees
	// one exists, so this indicates an internal inconsistency.
	ErrNoFairCycle = errors.New("ltlx: could not close a fair cycle from the seed state")
)
