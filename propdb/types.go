package propdb

import (
	"github.com/katalvlaran/nuxlite/coi"
	"github.com/katalvlaran/nuxlite/ctl"
	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/fsm"
)

// Kind tags a property with the logic it is expressed in. The string forms
// are part of the output contract.
type Kind int

const (
	KindNoType Kind = iota
	KindCTL
	KindLTL
	KindInvar
	KindCompute
	KindPSL
)

// String renders k exactly as reports expect it.
func (k Kind) String() string {
	switch k {
	case KindCTL:
		return "CTL"
	case KindLTL:
		return "LTL"
	case KindInvar:
		return "INVAR"
	case KindCompute:
		return "COMPUTE"
	case KindPSL:
		return "PSL"
	default:
		return "NoType"
	}
}

// Status is a property's verification state. Transitions are monotonic:
// Unchecked moves to exactly one of True/False/Number/Wrong and stays there
// until an explicit Reset.
type Status int

const (
	StatusNoStatus Status = iota
	StatusUnchecked
	StatusTrue
	StatusFalse
	StatusWrong
	StatusNumber
)

// String renders s exactly as reports expect it.
func (s Status) String() string {
	switch s {
	case StatusUnchecked:
		return "Unchecked"
	case StatusTrue:
		return "True"
	case StatusFalse:
		return "False"
	case StatusWrong:
		return "Wrong"
	case StatusNumber:
		return "Number"
	default:
		return "NoStatus"
	}
}

// Property is one database record. TraceID is the (external) trace
// manager's id for the counterexample, or -1; Number carries the COMPUTE
// result when Status is StatusNumber.
type Property struct {
	Index   int
	Expr    dagexpr.ID
	Kind    Kind
	Status  Status
	TraceID int
	Number  ctl.Distance

	// lowered memoizes a PSL property's lazy re-classification to CTL or
	// LTL (PSL may be re-lowered ... lazily and memoized).
	lowered Kind
	// cone, local and localSexp hold the property's cone-of-influence
	// restriction and the FSM built from it, filled lazily on first
	// verification.
	cone      *coi.Cone
	local     *modelEnv
	localSexp *fsm.SexpFSM
}
