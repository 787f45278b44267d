package ltlx

import (
	"fmt"

	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/fsm"
)

// Tableau is the auxiliary FSM synthesized for a (negated, NNF) LTL
// formula: fresh boolean state variables for the formula's
// elementary subformulas, init/invar/trans expressions for their semantics,
// and one justice constraint per U and F subformula. Vars lists the fresh
// variable names in introduction order; the caller declares them (after the
// registry push) before encoding.
type Tableau struct {
	FSM  *fsm.SexpFSM
	Vars []string
}

// tableauBuilder accumulates constraints while sat() walks the formula.
type tableauBuilder struct {
	in      *dagexpr.Interner
	sats    map[dagexpr.ID]dagexpr.ID // subformula -> its sat() characterization
	vars    []string
	inits   []dagexpr.ID
	trans   []dagexpr.ID
	justice []dagexpr.ID
}

// BuildTableau synthesizes the symbolic tableau for neg, which must already
// be the NNF of the negated property. Its fair paths, in product with the
// model, are exactly the model paths satisfying neg; the tableau's initial
// condition is sat(neg).
//
// The rules are the standard Clarke-Grumberg-Hamaguchi expansion: each X
// subformula gets an elementary variable el with el ↔ X(sat(ψ)) in the
// transition relation; U, F, G and R are characterized through their own
// fixpoint expansions over a fresh elementary variable, with a justice
// constraint ¬sat ∨ sat(rhs) for the two least-fixpoint operators. Past
// operators get a history variable seeded by an initial condition instead
// of a justice constraint.
func BuildTableau(in *dagexpr.Interner, neg dagexpr.ID) (*Tableau, error) {
	tb := &tableauBuilder{in: in, sats: make(map[dagexpr.ID]dagexpr.ID)}

	root, err := tb.sat(neg)
	if err != nil {
		return nil, err
	}
	tb.inits = append([]dagexpr.ID{root}, tb.inits...)

	sx := fsm.NewSexpFSM(
		tb.conjoin(tb.inits),
		in.True(),
		tb.conjoin(tb.trans),
		in.True(),
		tb.justice,
		nil,
	)

	return &Tableau{FSM: sx, Vars: tb.vars}, nil
}

// fresh introduces the next elementary/history variable and returns its
// atom.
func (tb *tableauBuilder) fresh() dagexpr.ID {
	name := fmt.Sprintf("_ltl_el_%d", len(tb.vars))
	tb.vars = append(tb.vars, name)

	return tb.in.InternAtom(dagexpr.TagAtom, name, 0)
}

// conjoin folds a constraint list into one expression, TRUE when empty.
func (tb *tableauBuilder) conjoin(list []dagexpr.ID) dagexpr.ID {
	if len(list) == 0 {
		return tb.in.True()
	}
	acc := list[0]
	for _, c := range list[1:] {
		acc = tb.in.Intern(dagexpr.TagAnd, acc, c, 0)
	}

	return acc
}

// elTrans records el ↔ X(satExpr), the defining transition constraint of an
// elementary variable.
func (tb *tableauBuilder) elTrans(el, satExpr dagexpr.ID) {
	next := tb.in.Intern(dagexpr.TagNext, satExpr, dagexpr.Empty, 0)
	tb.trans = append(tb.trans, tb.in.Intern(dagexpr.TagIff, el, next, 0))
}

// histTrans records X(p) ↔ satExpr, the defining constraint of a past
// history variable: p holds in the next state iff satExpr holds now.
func (tb *tableauBuilder) histTrans(p, satExpr dagexpr.ID) {
	next := tb.in.Intern(dagexpr.TagNext, p, dagexpr.Empty, 0)
	tb.trans = append(tb.trans, tb.in.Intern(dagexpr.TagIff, next, satExpr, 0))
}

// hist introduces a past history variable initialized to val.
func (tb *tableauBuilder) hist(val bool) dagexpr.ID {
	p := tb.fresh()
	if val {
		tb.inits = append(tb.inits, p)
	} else {
		tb.inits = append(tb.inits, tb.in.Intern(dagexpr.TagNot, p, dagexpr.Empty, 0))
	}

	return p
}

// sat returns the boolean characterization of expr over the tableau's
// elementary variables and the model's own symbols.
func (tb *tableauBuilder) sat(expr dagexpr.ID) (dagexpr.ID, error) {
	if expr == dagexpr.Empty {
		return expr, nil
	}
	if s, ok := tb.sats[expr]; ok {
		return s, nil
	}

	n, ok := tb.in.Get(expr)
	if !ok {
		return dagexpr.Empty, fmt.Errorf("ltlx: %w: expr id %d", dagexpr.ErrUnknownID, expr)
	}

	var s dagexpr.ID
	var err error
	switch n.Tag {
	case dagexpr.TagOpNext:
		s, err = tb.satNext(n)
	case dagexpr.TagOpFuture:
		s, err = tb.satFuture(n)
	case dagexpr.TagOpGlobal:
		s, err = tb.satGlobal(n)
	case dagexpr.TagUntil:
		s, err = tb.satUntil(n)
	case dagexpr.TagReleases:
		s, err = tb.satReleases(n)
	case dagexpr.TagOpPrec, dagexpr.TagNotPrecNot:
		s, err = tb.satYesterday(n)
	case dagexpr.TagSince, dagexpr.TagTriggered:
		s, err = tb.satSince(n)
	case dagexpr.TagHistorically, dagexpr.TagOnce:
		s, err = tb.satHistorically(n)
	case dagexpr.TagNot, dagexpr.TagAnd, dagexpr.TagOr, dagexpr.TagXor,
		dagexpr.TagImplies, dagexpr.TagIff:
		s, err = tb.satBoolean(n, expr)
	default:
		// Atoms, relational comparisons, CASE: propositional, taken as-is.
		s = expr
	}
	if err != nil {
		return dagexpr.Empty, err
	}
	tb.sats[expr] = s

	return s, nil
}

func (tb *tableauBuilder) satBoolean(n dagexpr.Node, expr dagexpr.ID) (dagexpr.ID, error) {
	l, err := tb.sat(n.Left)
	if err != nil {
		return dagexpr.Empty, err
	}
	r, err := tb.sat(n.Right)
	if err != nil {
		return dagexpr.Empty, err
	}
	if l == n.Left && r == n.Right {
		return expr, nil
	}

	return tb.in.Intern(n.Tag, l, r, n.Line), nil
}

// satNext: sat(X ψ) = el, with el ↔ X(sat(ψ)).
func (tb *tableauBuilder) satNext(n dagexpr.Node) (dagexpr.ID, error) {
	inner, err := tb.sat(n.Left)
	if err != nil {
		return dagexpr.Empty, err
	}
	el := tb.fresh()
	tb.elTrans(el, inner)

	return el, nil
}

// satFuture: sat(F ψ) = sat(ψ) ∨ el, el ↔ X(sat(F ψ)); justice
// ¬sat(F ψ) ∨ sat(ψ) forbids postponing ψ forever.
func (tb *tableauBuilder) satFuture(n dagexpr.Node) (dagexpr.ID, error) {
	inner, err := tb.sat(n.Left)
	if err != nil {
		return dagexpr.Empty, err
	}
	el := tb.fresh()
	s := tb.in.Intern(dagexpr.TagOr, inner, el, n.Line)
	tb.elTrans(el, s)
	notS := tb.in.Intern(dagexpr.TagNot, s, dagexpr.Empty, n.Line)
	tb.justice = append(tb.justice, tb.in.Intern(dagexpr.TagOr, notS, inner, n.Line))

	return s, nil
}

// satGlobal: sat(G ψ) = sat(ψ) ∧ el, el ↔ X(sat(G ψ)). A greatest
// fixpoint: no justice constraint.
func (tb *tableauBuilder) satGlobal(n dagexpr.Node) (dagexpr.ID, error) {
	inner, err := tb.sat(n.Left)
	if err != nil {
		return dagexpr.Empty, err
	}
	el := tb.fresh()
	s := tb.in.Intern(dagexpr.TagAnd, inner, el, n.Line)
	tb.elTrans(el, s)

	return s, nil
}

// satUntil: sat(φ U ψ) = sat(ψ) ∨ (sat(φ) ∧ el), el ↔ X(sat(φ U ψ));
// justice ¬sat(φ U ψ) ∨ sat(ψ).
func (tb *tableauBuilder) satUntil(n dagexpr.Node) (dagexpr.ID, error) {
	phi, err := tb.sat(n.Left)
	if err != nil {
		return dagexpr.Empty, err
	}
	psi, err := tb.sat(n.Right)
	if err != nil {
		return dagexpr.Empty, err
	}
	el := tb.fresh()
	hold := tb.in.Intern(dagexpr.TagAnd, phi, el, n.Line)
	s := tb.in.Intern(dagexpr.TagOr, psi, hold, n.Line)
	tb.elTrans(el, s)
	notS := tb.in.Intern(dagexpr.TagNot, s, dagexpr.Empty, n.Line)
	tb.justice = append(tb.justice, tb.in.Intern(dagexpr.TagOr, notS, psi, n.Line))

	return s, nil
}

// satReleases: sat(φ R ψ) = sat(ψ) ∧ (sat(φ) ∨ el), el ↔ X(sat(φ R ψ)).
func (tb *tableauBuilder) satReleases(n dagexpr.Node) (dagexpr.ID, error) {
	phi, err := tb.sat(n.Left)
	if err != nil {
		return dagexpr.Empty, err
	}
	psi, err := tb.sat(n.Right)
	if err != nil {
		return dagexpr.Empty, err
	}
	el := tb.fresh()
	release := tb.in.Intern(dagexpr.TagOr, phi, el, n.Line)
	s := tb.in.Intern(dagexpr.TagAnd, psi, release, n.Line)
	tb.elTrans(el, s)

	return s, nil
}

// satYesterday: sat(Y ψ) = p with init ¬p (Z: init p), X(p) ↔ sat(ψ).
func (tb *tableauBuilder) satYesterday(n dagexpr.Node) (dagexpr.ID, error) {
	inner, err := tb.sat(n.Left)
	if err != nil {
		return dagexpr.Empty, err
	}
	p := tb.hist(n.Tag == dagexpr.TagNotPrecNot)
	tb.histTrans(p, inner)

	return p, nil
}

// satSince: sat(φ S ψ) = sat(ψ) ∨ (sat(φ) ∧ p) with p = Y(φ S ψ), init ¬p;
// Triggered is the dual: sat(φ T ψ) = sat(ψ) ∧ (sat(φ) ∨ p), init p.
func (tb *tableauBuilder) satSince(n dagexpr.Node) (dagexpr.ID, error) {
	phi, err := tb.sat(n.Left)
	if err != nil {
		return dagexpr.Empty, err
	}
	psi, err := tb.sat(n.Right)
	if err != nil {
		return dagexpr.Empty, err
	}

	var s dagexpr.ID
	if n.Tag == dagexpr.TagSince {
		p := tb.hist(false)
		held := tb.in.Intern(dagexpr.TagAnd, phi, p, n.Line)
		s = tb.in.Intern(dagexpr.TagOr, psi, held, n.Line)
		tb.histTrans(p, s)
	} else {
		p := tb.hist(true)
		released := tb.in.Intern(dagexpr.TagOr, phi, p, n.Line)
		s = tb.in.Intern(dagexpr.TagAnd, psi, released, n.Line)
		tb.histTrans(p, s)
	}

	return s, nil
}

// satHistorically: sat(H ψ) = sat(ψ) ∧ p with init p; Once is the dual:
// sat(O ψ) = sat(ψ) ∨ p with init ¬p. Both record their own value into p.
func (tb *tableauBuilder) satHistorically(n dagexpr.Node) (dagexpr.ID, error) {
	inner, err := tb.sat(n.Left)
	if err != nil {
		return dagexpr.Empty, err
	}

	var s dagexpr.ID
	if n.Tag == dagexpr.TagHistorically {
		p := tb.hist(true)
		s = tb.in.Intern(dagexpr.TagAnd, inner, p, n.Line)
		tb.histTrans(p, s)
	} else {
		p := tb.hist(false)
		s = tb.in.Intern(dagexpr.TagOr, inner, p, n.Line)
		tb.histTrans(p, s)
	}

	return s, nil
}
