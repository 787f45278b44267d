package fsm

import "errors"

// Sentinel errors for fsm operations.
var (
	// ErrEmptyInit is a class-3 diagnostic: init ∧
	// invar is empty. Not fatal; check_machine reports it.
	ErrEmptyInit = errors.New("fsm: init is empty under invar")
	// ErrEmptyInvar reports invar itself being false, a degenerate model.
	ErrEmptyInvar = errors.New("fsm: invar is empty")
	// ErrEmptyFairness reports a justice formula that never holds, making
	// every path unfair.
	ErrEmptyFairness = errors.New("fsm: a justice constraint is never satisfiable")
	// ErrDeadlock reports a reachable state with no successor under
	// invar, the check_machine deadlock diagnostic.
	ErrDeadlock = errors.New("fsm: deadlock state is reachable")
)
