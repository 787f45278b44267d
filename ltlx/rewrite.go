package ltlx

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/registry"
)

// Binding records one input variable lifted into a fresh state variable by
// RewriteInputs: the fresh variable captures, one step later, the input
// taken on the transition leading to the current state.
// The fresh variable is declared by the caller, after the registry push.
type Binding struct {
	Input string
	Fresh string
	Range registry.Range
}

// Rewritten is RewriteInputs' result: the input-free formula plus the
// bindings to be declared and constrained later.
type Rewritten struct {
	Expr     dagexpr.ID
	Bindings []Binding
}

// rewriter carries the per-call state of one RewriteInputs pass.
type rewriter struct {
	in      *dagexpr.Interner
	reg     *registry.Registry
	binding map[string]Binding
}

// RewriteInputs lifts every input-variable occurrence in phi into a fresh
// state variable: a boolean input i becomes X p_i; an = or != comparison
// of i against a literal constant c becomes X(p_i = c) or X(p_i != c); any
// other relational subformula over i becomes the finite disjunction, over
// i's declared range, of the comparison against each constant conjoined
// with X(p_i = constant). The rewritten formula mentions no input variable.
func RewriteInputs(in *dagexpr.Interner, reg *registry.Registry, phi dagexpr.ID) (Rewritten, error) {
	rw := &rewriter{in: in, reg: reg, binding: make(map[string]Binding)}

	expr, err := rw.rewrite(phi)
	if err != nil {
		return Rewritten{}, err
	}

	names := make([]string, 0, len(rw.binding))
	for name := range rw.binding {
		names = append(names, name)
	}
	sort.Strings(names)

	out := Rewritten{Expr: expr}
	for _, name := range names {
		out.Bindings = append(out.Bindings, rw.binding[name])
	}

	return out, nil
}

// CaptureConstraint builds the transition constraint that ties b's fresh
// state variable to its input: the disjunction, over the input's range, of
// next(p_i) = v conjoined with i = v — "next(p_i) ∈ range(i) constrained to
// equal i" expanded the only way the bit-blasting encoder admits
// (symbol-versus-constant equalities).
func CaptureConstraint(in *dagexpr.Interner, b Binding) dagexpr.ID {
	fresh := in.InternAtom(dagexpr.TagAtom, b.Fresh, 0)
	input := in.InternAtom(dagexpr.TagAtom, b.Input, 0)

	disj := dagexpr.Empty
	for _, v := range b.Range.Values {
		val := in.InternAtom(dagexpr.TagAtom, v, 0)
		captured := in.Intern(dagexpr.TagNext, in.Intern(dagexpr.TagEqual, fresh, val, 0), dagexpr.Empty, 0)
		taken := in.Intern(dagexpr.TagEqual, input, val, 0)
		arm := in.Intern(dagexpr.TagAnd, captured, taken, 0)
		if disj == dagexpr.Empty {
			disj = arm
		} else {
			disj = in.Intern(dagexpr.TagOr, disj, arm, 0)
		}
	}

	return disj
}

// bind returns (allocating on first use) the Binding for input name.
func (rw *rewriter) bind(name string) Binding {
	if b, ok := rw.binding[name]; ok {
		return b
	}
	rng, _ := rw.reg.GetVarRange(name)
	b := Binding{Input: name, Fresh: "_ltl_in_" + name, Range: rng}
	rw.binding[name] = b

	return b
}

func (rw *rewriter) rewrite(expr dagexpr.ID) (dagexpr.ID, error) {
	if expr == dagexpr.Empty {
		return expr, nil
	}
	n, ok := rw.in.Get(expr)
	if !ok {
		return dagexpr.Empty, fmt.Errorf("ltlx: %w: expr id %d", dagexpr.ErrUnknownID, expr)
	}

	switch n.Tag {
	case dagexpr.TagAtom:
		if !rw.reg.IsInputVar(n.Atom) {
			return expr, nil
		}
		rng, err := rw.reg.GetVarRange(n.Atom)
		if err != nil {
			return dagexpr.Empty, err
		}
		if rng.Width() != 1 {
			return dagexpr.Empty, fmt.Errorf("%w: %q", ErrBareInputAtom, n.Atom)
		}
		b := rw.bind(n.Atom)
		fresh := rw.in.InternAtom(dagexpr.TagAtom, b.Fresh, n.Line)

		return rw.in.Intern(dagexpr.TagOpNext, fresh, dagexpr.Empty, n.Line), nil

	case dagexpr.TagEqual, dagexpr.TagNotEqual, dagexpr.TagLt, dagexpr.TagLe,
		dagexpr.TagGt, dagexpr.TagGe, dagexpr.TagSetIn:
		return rw.rewriteRelational(n)

	default:
		left, err := rw.rewrite(n.Left)
		if err != nil {
			return dagexpr.Empty, err
		}
		right, err := rw.rewrite(n.Right)
		if err != nil {
			return dagexpr.Empty, err
		}
		if left == n.Left && right == n.Right {
			return expr, nil
		}
		if n.Atom != "" {
			return rw.in.InternAtom(n.Tag, n.Atom, n.Line), nil
		}

		return rw.in.Intern(n.Tag, left, right, n.Line), nil
	}
}

// rewriteRelational expands a comparison whose left or right operand is an
// input atom into the finite disjunction step 4. An input
// on the left is expanded first; the substituted comparisons then pass back
// through rewrite, which handles an input remaining on the right.
func (rw *rewriter) rewriteRelational(n dagexpr.Node) (dagexpr.ID, error) {
	side, other, inputOnLeft := rw.inputSide(n)
	if side == "" {
		// No input operand at all: the comparison survives unchanged.
		return rw.in.Intern(n.Tag, n.Left, n.Right, n.Line), nil
	}

	b := rw.bind(side)
	fresh := rw.in.InternAtom(dagexpr.TagAtom, b.Fresh, n.Line)

	// Input against a literal constant: the comparison transfers to the
	// capture variable directly, one step later — no range disjunction.
	if (n.Tag == dagexpr.TagEqual || n.Tag == dagexpr.TagNotEqual) && rw.isConstantLeaf(other) {
		cmp := rw.in.Intern(n.Tag, fresh, other, n.Line)

		return rw.in.Intern(dagexpr.TagOpNext, cmp, dagexpr.Empty, n.Line), nil
	}

	disj := dagexpr.Empty
	for _, v := range b.Range.Values {
		val := rw.in.InternAtom(dagexpr.TagAtom, v, n.Line)

		var cmp dagexpr.ID
		if inputOnLeft {
			cmp = rw.in.Intern(n.Tag, val, other, n.Line)
		} else {
			cmp = rw.in.Intern(n.Tag, other, val, n.Line)
		}
		cmpRw, err := rw.rewrite(cmp)
		if err != nil {
			return dagexpr.Empty, err
		}

		eq := rw.in.Intern(dagexpr.TagEqual, fresh, val, n.Line)
		captured := rw.in.Intern(dagexpr.TagOpNext, eq, dagexpr.Empty, n.Line)
		arm := rw.in.Intern(dagexpr.TagAnd, cmpRw, captured, n.Line)

		if disj == dagexpr.Empty {
			disj = arm
		} else {
			disj = rw.in.Intern(dagexpr.TagOr, disj, arm, n.Line)
		}
	}

	return disj, nil
}

// inputSide reports which operand of a relational node is an input atom:
// the input's name, the other operand, and whether the input sits on the
// left. An empty name means neither side is an input.
func (rw *rewriter) inputSide(n dagexpr.Node) (string, dagexpr.ID, bool) {
	if name, ok := rw.inputAtom(n.Left); ok {
		return name, n.Right, true
	}
	if name, ok := rw.inputAtom(n.Right); ok {
		return name, n.Left, false
	}

	return "", dagexpr.Empty, false
}

// isConstantLeaf reports whether id is a literal: a number, or an atom that
// names no declared variable or define (a symbolic range constant).
func (rw *rewriter) isConstantLeaf(id dagexpr.ID) bool {
	if id == dagexpr.Empty {
		return false
	}
	n, ok := rw.in.Get(id)
	if !ok {
		return false
	}
	switch n.Tag {
	case dagexpr.TagNumber:
		return true
	case dagexpr.TagAtom:
		return !rw.reg.IsSymbolVar(n.Atom) && !rw.reg.IsDefine(n.Atom)
	default:
		return false
	}
}

func (rw *rewriter) inputAtom(id dagexpr.ID) (string, bool) {
	if id == dagexpr.Empty {
		return "", false
	}
	n, ok := rw.in.Get(id)
	if !ok || n.Tag != dagexpr.TagAtom {
		return "", false
	}
	if !rw.reg.IsInputVar(n.Atom) {
		return "", false
	}

	return n.Atom, true
}
