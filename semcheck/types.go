package semcheck

import "github.com/katalvlaran/nuxlite/dagexpr"

// LHSKind distinguishes the three assignable left-hand-side shapes: a plain current-state assignment, an init-only assignment, and
// a next-state assignment (the only shape permitted to reference inputs).
type LHSKind int

const (
	// LHSPlain is "v := expr".
	LHSPlain LHSKind = iota
	// LHSInit is "init(v) := expr".
	LHSInit
	// LHSNext is "next(v) := expr".
	LHSNext
)

// String renders k for diagnostics.
func (k LHSKind) String() string {
	switch k {
	case LHSPlain:
		return "v"
	case LHSInit:
		return "init(v)"
	case LHSNext:
		return "next(v)"
	default:
		return "unknown"
	}
}

// LHS is a canonical assignable left-hand side: a (kind, variable) pair.
// Two Assignments with equal LHS values are the same assignable target, and
// a second one is a multiple-assignment error.
type LHS struct {
	Var  string
	Kind LHSKind
}

// Assignment is one "LHS := RHS" entry from the flattened model, with the
// source line used for multiple-assignment diagnostics.
type Assignment struct {
	LHS  LHS
	RHS  dagexpr.ID
	Line int
}

// Context identifies where an expression appears in the flattened model, for
// the input-restriction pass: INIT/INVAR/TRANS sections, the
// right-hand side of a plain or init(v) assignment, the right-hand side of a
// next(v) assignment (the one context that permits input variables), and the
// property-formula contexts (INVAR spec, CTL, LTL, COMPUTE, justice,
// compassion), which each have their own input-tolerance rule.
type Context int

const (
	// CtxInit is the model's INIT section.
	CtxInit Context = iota
	// CtxInvar is the model's INVAR section.
	CtxInvar
	// CtxTrans is the model's TRANS section.
	CtxTrans
	// CtxAssignPlain is the RHS of "v := expr".
	CtxAssignPlain
	// CtxAssignInit is the RHS of "init(v) := expr".
	CtxAssignInit
	// CtxAssignNext is the RHS of "next(v) := expr"; the sole context that
	// may reference input variables.
	CtxAssignNext
	// CtxJustice is a justice (Büchi fairness) formula.
	CtxJustice
	// CtxCompassion is one half of a compassion (Streett fairness) pair.
	CtxCompassion
	// CtxCTL is a CTL property formula.
	CtxCTL
	// CtxLTL is an LTL property formula.
	CtxLTL
	// CtxCompute is a COMPUTE(MIN/MAX[...]) property formula.
	CtxCompute
	// CtxInvarSpec is an INVAR property (propositional ρ, meant as AG ρ);
	// it "accept[s] inputs only outside of next" — i.e. the
	// propositional body may reference inputs, but not inside a NEXT.
	CtxInvarSpec
)

// Model is the flattened expression tree that forms the contract between
// the core and the (external) parser/flattener: init, invar, trans, the
// per-LHS assignments, and the justice and compassion lists. Property
// formulas are not part of it; they are checked one at a time through
// Checker.CheckProperty.
type Model struct {
	Init, Invar, Trans dagexpr.ID
	Assignments        []Assignment
	Justice            []dagexpr.ID
	Compassion         [][2]dagexpr.ID
}
