package semcheck

import (
	"fmt"

	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/errkind"
	"github.com/katalvlaran/nuxlite/registry"
)

// state is the three-color marker the circularity walk uses. The zero
// value means never visited. A "failure" is not a fourth color; it is the
// error returned the moment a back-edge into an open vertex is found.
type state int

const (
	unvisited state = iota
	open
	closed
)

// Checker runs the three semcheck passes over a Model,
// resolving atoms against in and reg.
type Checker struct {
	in  *dagexpr.Interner
	reg *registry.Registry
}

// New returns a Checker resolving expression atoms against in and reg.
func New(in *dagexpr.Interner, reg *registry.Registry) *Checker {
	return &Checker{in: in, reg: reg}
}

// CheckModel runs all three passes: multiple assignment, circularity, then
// input restriction. It stops at the first failing pass; class-1 errors
// fail the whole model load.
func (c *Checker) CheckModel(m Model) error {
	if err := c.CheckMultipleAssignment(m); err != nil {
		return err
	}
	if err := c.CheckCircularity(m); err != nil {
		return err
	}

	return c.CheckInputRestriction(m)
}

// CheckMultipleAssignment maintains a table keyed by canonical LHS; a second
// assignment to the same LHS is an error citing both source locations.
func (c *Checker) CheckMultipleAssignment(m Model) error {
	seen := make(map[LHS]Assignment, len(m.Assignments))
	for _, a := range m.Assignments {
		if first, ok := seen[a.LHS]; ok {
			err := fmt.Errorf("%w: %s %s (first assigned at line %d, again at line %d)",
				ErrMultipleAssignment, a.LHS.Kind, a.LHS.Var, first.Line, a.Line)

			return errkind.New(errkind.ParseSemantic, err).WithLine(a.Line)
		}
		seen[a.LHS] = a
	}

	return nil
}

// depNode is one entry in the define/assignment dependency graph: a symbol
// that has a body (a define, or the RHS of a plain/init assignment — next(v)
// assignments are excluded, since they describe the *next* value, not a
// value the current-state dependency closure should walk through) together
// with the line its body is declared at, for diagnostics.
type depNode struct {
	body dagexpr.ID
	line int
}

// CheckCircularity walks the define/assignment dependency graph with a
// three-state marker: a back-edge into an open vertex is "recursively
// defined". next(v):=expr assignments are excluded
// from the graph itself (their RHS describes a future value, not a
// definition v depends on in the current state) but their RHS is still
// walked for the atoms it references, since those references must resolve
// through the same graph without completing a cycle back to v's own
// definition.
func (c *Checker) CheckCircularity(m Model) error {
	nodes := make(map[string]depNode)
	for _, a := range m.Assignments {
		if a.LHS.Kind == LHSNext {
			continue
		}
		nodes[a.LHS.Var] = depNode{body: a.RHS, line: a.Line}
	}
	// The circularity graph spans the define/assignment graph: registry defines contribute their bodies too.
	for _, d := range c.reg.Defines() {
		if _, ok := nodes[d.Name]; !ok {
			nodes[d.Name] = depNode{body: d.Body}
		}
	}

	marks := make(map[string]state, len(nodes))
	var walk func(name string, stack []string) error
	walk = func(name string, stack []string) error {
		n, ok := nodes[name]
		if !ok {
			return nil // atom has no body in this graph (a plain input/leaf variable)
		}
		switch marks[name] {
		case closed:
			return nil
		case open:
			err := fmt.Errorf("%w: %s", ErrCircularDefinition, name)
			e := errkind.New(errkind.ParseSemantic, err).WithLine(n.line)
			for _, a := range append(stack, name) {
				e = e.WithAtom(a)
			}

			return e
		}

		marks[name] = open
		occs, _, err := collectAtoms(c.in, n.body)
		if err != nil {
			return errkind.New(errkind.ParseSemantic, err).WithLine(n.line)
		}
		for _, occ := range occs {
			if err := walk(occ.name, append(stack, name)); err != nil {
				return err
			}
		}
		marks[name] = closed

		return nil
	}

	for name := range nodes {
		if marks[name] == unvisited {
			if err := walk(name, nil); err != nil {
				return err
			}
		}
	}

	return nil
}

// CheckInputRestriction rejects input-variable references that are
// disallowed for each section and fairness kind of m, and any NEXT nested
// inside another NEXT. Where a single NEXT may appear is not checked.
func (c *Checker) CheckInputRestriction(m Model) error {
	checks := []struct {
		expr dagexpr.ID
		ctx  Context
	}{
		{m.Init, CtxInit},
		{m.Invar, CtxInvar},
		{m.Trans, CtxTrans},
	}
	for _, chk := range checks {
		if err := c.checkOne(chk.expr, chk.ctx); err != nil {
			return err
		}
	}
	for _, a := range m.Assignments {
		ctx := CtxAssignPlain
		if a.LHS.Kind == LHSInit {
			ctx = CtxAssignInit
		} else if a.LHS.Kind == LHSNext {
			ctx = CtxAssignNext
		}
		if err := c.checkOne(a.RHS, ctx); err != nil {
			return err
		}
	}
	for _, j := range m.Justice {
		if err := c.checkOne(j, CtxJustice); err != nil {
			return err
		}
	}
	for _, p := range m.Compassion {
		if err := c.checkOne(p[0], CtxCompassion); err != nil {
			return err
		}
		if err := c.checkOne(p[1], CtxCompassion); err != nil {
			return err
		}
	}

	return nil
}

// CheckProperty validates a single property-formula expression under the
// Context its kind implies (CtxCTL/CtxLTL/CtxCompute/CtxInvarSpec), for
// propdb.CreateAndAdd to call before accepting a new property.
func (c *Checker) CheckProperty(expr dagexpr.ID, ctx Context) error {
	return c.checkOne(expr, ctx)
}

func (c *Checker) checkOne(expr dagexpr.ID, ctx Context) error {
	if expr == dagexpr.Empty {
		return nil
	}
	occs, line, err := collectAtoms(c.in, expr)
	if err != nil {
		return errkind.New(errkind.ParseSemantic, err).WithLine(line)
	}
	for _, occ := range occs {
		if !c.reg.IsInputVar(occ.name) {
			continue
		}
		if ctx.allowsInput(occ.underNext) {
			continue
		}
		e := fmt.Errorf("%w: %q in %v", ErrInputInDisallowedPosition, occ.name, ctx)

		return errkind.New(errkind.ParseSemantic, e).WithLine(line).WithAtom(occ.name)
	}

	return nil
}

// allowsInput reports whether ctx permits an input-variable occurrence
// that is (underNext) or is not under a NEXT wrapper:
// next(v):=... tolerates inputs unconditionally; an INVAR spec tolerates
// them only outside of next; an LTL property tolerates them too (the
// tableau's input-lifting rewrite exists exactly for that case); every
// other context rejects them outright.
func (ctx Context) allowsInput(underNext bool) bool {
	switch ctx {
	case CtxAssignNext, CtxLTL:
		return true
	case CtxInvarSpec:
		return !underNext
	default:
		return false
	}
}

// String renders ctx for diagnostics.
func (ctx Context) String() string {
	switch ctx {
	case CtxInit:
		return "INIT"
	case CtxInvar:
		return "INVAR"
	case CtxTrans:
		return "TRANS"
	case CtxAssignPlain:
		return "v := ..."
	case CtxAssignInit:
		return "init(v) := ..."
	case CtxAssignNext:
		return "next(v) := ..."
	case CtxJustice:
		return "JUSTICE"
	case CtxCompassion:
		return "COMPASSION"
	case CtxCTL:
		return "CTL spec"
	case CtxLTL:
		return "LTL spec"
	case CtxCompute:
		return "COMPUTE spec"
	case CtxInvarSpec:
		return "INVAR spec"
	default:
		return "unknown"
	}
}

// atomOcc is one TagAtom occurrence found while walking an expression, along
// with whether it sits under a NEXT wrapper.
type atomOcc struct {
	name     string
	underNext bool
}

// collectAtoms walks expr, returning every TagAtom occurrence (name plus
// whether it is under a NEXT). It enforces the structural NEXT rule that
// applies regardless of context — next(next(x)) is always rejected — and
// reports the line of the first node visited for diagnostics.
func collectAtoms(in *dagexpr.Interner, expr dagexpr.ID) ([]atomOcc, int, error) {
	var occs []atomOcc
	var firstLine int
	var walk func(id dagexpr.ID, nextDepth int, underNext bool) error
	walk = func(id dagexpr.ID, nextDepth int, underNext bool) error {
		if id == dagexpr.Empty {
			return nil
		}
		n, ok := in.Get(id)
		if !ok {
			return nil
		}
		if firstLine == 0 && n.Line != 0 {
			firstLine = n.Line
		}
		switch n.Tag {
		case dagexpr.TagAtom:
			occs = append(occs, atomOcc{name: n.Atom, underNext: underNext})

			return nil
		case dagexpr.TagNumber, dagexpr.TagTrue, dagexpr.TagFalse, dagexpr.TagSelf:
			return nil
		case dagexpr.TagNext:
			if nextDepth > 0 {
				return fmt.Errorf("%w: at line %d", ErrNestedNext, n.Line)
			}

			return walk(n.Left, nextDepth+1, true)
		}
		if err := walk(n.Left, nextDepth, underNext); err != nil {
			return err
		}

		return walk(n.Right, nextDepth, underNext)
	}
	err := walk(expr, 0, false)

	return occs, firstLine, err
}
