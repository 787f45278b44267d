package ctl

import "errors"

// Sentinel errors for ctl operations.
var (
	// ErrInputInFormula indicates a CTL formula referenced an input
	// variable in a disallowed position; the semantic checker (package
	// semcheck) is expected to reject this before ctl ever sees the
	// formula, but Checker defends against misuse directly too.
	ErrInputInFormula = errors.New("ctl: input variable in disallowed position")
	// ErrNotAGConjunction indicates CheckAGOnly was asked to fast-path a
	// formula that is not a conjunction of AG(propositional).
	ErrNotAGConjunction = errors.New("ctl: formula is not an AG-only conjunction")
)
