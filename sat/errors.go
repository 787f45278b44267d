package sat

import "errors"

var (
	// ErrNoSuchSolver means Create was asked
	// for a backend name this facade does not implement.
	ErrNoSuchSolver = errors.New("sat: no such solver name")
	// ErrAlreadyDestroyed reports use of a Facade after Destroy.
	ErrAlreadyDestroyed = errors.New("sat: solver instance already destroyed")
	// ErrNoModel reports GetModel called before a SAT result was produced.
	ErrNoModel = errors.New("sat: no model available")
)
