package be

import (
	"fmt"
	"strconv"

	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/registry"
)

// Encoder lowers hash-consed Boolean expressions into base (unframed,
// time == -1) BE circuit nodes, the BE-layer counterpart of bdd.Encoder.
// ShiftCurrNextToTime is the only thing that ever places a node at a
// concrete BMC time frame; Encoder itself always stays at time -1, so one
// Encoder instance serves every k package bmc unrolls.
//
// Unlike bdd.Encoder, there is no ref-counting discipline here: BE nodes are
// never freed individually (Manager's arena only grows), so eval need not
// Deref intermediate results the way the BDD encoder does.
type Encoder struct {
	in  *dagexpr.Interner
	reg *registry.Registry
	mgr *Manager

	memoCurr map[dagexpr.ID]ID
	memoNext map[dagexpr.ID]ID
	inFlight map[string]bool // define names currently being expanded, for cycle detection
}

// NewEncoder builds an Encoder over an already-encoded registry (bit
// vectors assigned) and a Manager to allocate BE nodes in.
func NewEncoder(in *dagexpr.Interner, reg *registry.Registry, mgr *Manager) *Encoder {
	return &Encoder{
		in:       in,
		reg:      reg,
		mgr:      mgr,
		memoCurr: make(map[dagexpr.ID]ID),
		memoNext: make(map[dagexpr.ID]ID),
		inFlight: make(map[string]bool),
	}
}

// Interner returns the dagexpr.Interner this Encoder was built over, so
// callers that already hold an Encoder (package bmc's ltlEncoder) can walk
// expression nodes directly without needing their own reference threaded
// through.
func (e *Encoder) Interner() *dagexpr.Interner {
	return e.in
}

// ExprToBE evaluates expr as a Boolean formula in the current-state frame.
func (e *Encoder) ExprToBE(expr dagexpr.ID) (ID, error) {
	return e.eval(expr, false)
}

// ExprToBENext evaluates expr in the next-state frame, the BE counterpart
// of bdd.Encoder.ExprToBDDNext: every state variable atom resolves to its
// ClassNext base variable instead of its ClassCurrent one.
func (e *Encoder) ExprToBENext(expr dagexpr.ID) (ID, error) {
	return e.eval(expr, true)
}

func (e *Encoder) eval(expr dagexpr.ID, next bool) (ID, error) {
	memo := e.memoCurr
	if next {
		memo = e.memoNext
	}
	if id, ok := memo[expr]; ok {
		return id, nil
	}

	id, err := e.evalUncached(expr, next)
	if err != nil {
		return invalid, err
	}
	memo[expr] = id

	return id, nil
}

func (e *Encoder) evalUncached(expr dagexpr.ID, next bool) (ID, error) {
	n, ok := e.in.Get(expr)
	if !ok {
		return invalid, fmt.Errorf("be: %w: expr id %d", dagexpr.ErrUnknownID, expr)
	}

	switch n.Tag {
	case dagexpr.TagTrue:
		return True, nil
	case dagexpr.TagFalse:
		return False, nil
	case dagexpr.TagAtom:
		return e.evalAtom(n.Atom, next)
	case dagexpr.TagNot:
		a, err := e.eval(n.Left, next)
		if err != nil {
			return invalid, err
		}

		return e.mgr.Not(a), nil
	case dagexpr.TagAnd, dagexpr.TagOr, dagexpr.TagXor, dagexpr.TagImplies, dagexpr.TagIff:
		return e.evalBinary(n, next)
	case dagexpr.TagEqual, dagexpr.TagNotEqual:
		return e.evalEquality(n, next)
	case dagexpr.TagNext:
		if next {
			return invalid, fmt.Errorf("be: %w: nested NEXT", ErrUnsupportedTag)
		}

		return e.eval(n.Left, true)
	case dagexpr.TagCase:
		return e.evalCase(n.Left, next)
	default:
		return invalid, fmt.Errorf("be: %w: tag %d", ErrUnsupportedTag, n.Tag)
	}
}

func (e *Encoder) evalBinary(n dagexpr.Node, next bool) (ID, error) {
	a, err := e.eval(n.Left, next)
	if err != nil {
		return invalid, err
	}
	b, err := e.eval(n.Right, next)
	if err != nil {
		return invalid, err
	}

	switch n.Tag {
	case dagexpr.TagAnd:
		return e.mgr.And(a, b), nil
	case dagexpr.TagOr:
		return e.mgr.Or(a, b), nil
	case dagexpr.TagXor:
		return e.mgr.Xor(a, b), nil
	case dagexpr.TagImplies:
		return e.mgr.Implies(a, b), nil
	case dagexpr.TagIff:
		return e.mgr.Iff(a, b), nil
	}

	return invalid, fmt.Errorf("be: %w: tag %d", ErrUnsupportedTag, n.Tag)
}

// evalAtom resolves a bare identifier the same way bdd.Encoder.evalAtom
// does: a Boolean (width-1) var/define/constant reads as its own BE node;
// anything wider must appear under an equality, never bare.
func (e *Encoder) evalAtom(name string, next bool) (ID, error) {
	if e.reg.IsDefine(name) {
		return e.evalDefine(name, next)
	}
	if e.reg.IsSymbolVar(name) {
		v, _ := e.reg.Variable(name)
		if v.Range.Width() != 1 {
			return invalid, fmt.Errorf("be: %w: %q", ErrNotABooleanVar, name)
		}

		return e.litFor(v, v.Bits[0], true, next), nil
	}

	return invalid, fmt.Errorf("be: %w: %q", registry.ErrUndefined, name)
}

func (e *Encoder) evalDefine(name string, next bool) (ID, error) {
	if e.inFlight[name] {
		return invalid, fmt.Errorf("be: %w: %q", ErrCircularDefine, name)
	}
	body, err := e.reg.GetDefineBody(name)
	if err != nil {
		return invalid, err
	}

	e.inFlight[name] = true
	id, err := e.eval(body, next)
	delete(e.inFlight, name)

	return id, err
}

// litFor returns bit's base BE variable node, classed per the variable's
// registry kind and next so ShiftCurrNextToTime later places it at the
// right time frame: an input bit is always ClassInput, a state bit is
// ClassNext when next is requested and ClassCurrent otherwise. value
// negates the literal, as bdd.Encoder's litFor does.
func (e *Encoder) litFor(v registry.Variable, b registry.Bit, value, next bool) ID {
	class := ClassCurrent
	switch {
	case v.Kind == registry.KindInput:
		class = ClassInput
	case next:
		class = ClassNext
	}

	lit := e.mgr.NewVar(b, class)
	if !value {
		lit = e.mgr.Not(lit)
	}

	return lit
}

// evalEquality bit-blasts `lhs = rhs` / `lhs != rhs` the same way
// bdd.Encoder.evalEquality does, XNOR-folding each bit of the constant's
// binary index against the symbol's bit vector via Iff.
func (e *Encoder) evalEquality(n dagexpr.Node, next bool) (ID, error) {
	lhs, ok := e.in.Get(n.Left)
	if !ok || lhs.Tag != dagexpr.TagAtom {
		return invalid, fmt.Errorf("be: %w: equality lhs must be a symbol", ErrUnsupportedTag)
	}
	rhs, ok := e.in.Get(n.Right)
	if !ok {
		return invalid, fmt.Errorf("be: %w: equality rhs id %d", dagexpr.ErrUnknownID, n.Right)
	}

	v, ok := e.reg.Variable(lhs.Atom)
	if !ok {
		return invalid, fmt.Errorf("be: %w: %q", registry.ErrUndefined, lhs.Atom)
	}

	idxVal, err := indexOfConstant(v.Range, rhs.Atom)
	if err != nil {
		return invalid, err
	}
	if idxVal < 0 {
		// Numeric constant outside the declared range: constantly false
		// (constantly true for a disequality).
		if n.Tag == dagexpr.TagNotEqual {
			return True, nil
		}

		return False, nil
	}

	acc := True
	width := len(v.Bits)
	for i := 0; i < width; i++ {
		bitVal := (idxVal>>(width-1-i))&1 == 1
		lit := e.litFor(v, v.Bits[i], true, next)
		matched := lit
		if !bitVal {
			matched = e.mgr.Not(lit)
		}
		acc = e.mgr.And(acc, matched)
	}

	if n.Tag == dagexpr.TagNotEqual {
		return e.mgr.Not(acc), nil
	}

	return acc, nil
}

func indexOfConstant(r registry.Range, name string) (int, error) {
	for i, v := range r.Values {
		if v == name {
			return i, nil
		}
	}
	if n, err := strconv.Atoi(name); err == nil {
		if n >= 0 && n < len(r.Values) {
			return n, nil
		}

		return -1, nil // numeric but outside the range: comparison is vacuous
	}

	return 0, fmt.Errorf("be: %w: %q not in range", registry.ErrUndefined, name)
}

// evalCase folds a Cons-linked TagColon(cond, val) arm list exactly as
// bdd.Encoder.evalCase does, last arm first, into nested ITEs built from
// And/Or/Not (the BE layer has no native Ite primitive).
func (e *Encoder) evalCase(arms dagexpr.ID, next bool) (ID, error) {
	type arm struct{ cond, val dagexpr.ID }
	var list []arm
	for cur := arms; cur != dagexpr.Empty; {
		consNode, ok := e.in.Get(cur)
		if !ok || consNode.Tag != dagexpr.TagCons {
			return invalid, fmt.Errorf("be: %w: malformed case arm list", ErrUnsupportedTag)
		}
		colonNode, ok := e.in.Get(consNode.Left)
		if !ok || colonNode.Tag != dagexpr.TagColon {
			return invalid, fmt.Errorf("be: %w: malformed case arm", ErrUnsupportedTag)
		}
		list = append(list, arm{cond: colonNode.Left, val: colonNode.Right})
		cur = consNode.Right
	}
	if len(list) == 0 {
		return invalid, fmt.Errorf("be: %w: empty case", ErrUnsupportedTag)
	}

	acc, err := e.eval(list[len(list)-1].val, next)
	if err != nil {
		return invalid, err
	}
	for i := len(list) - 2; i >= 0; i-- {
		cond, err := e.eval(list[i].cond, next)
		if err != nil {
			return invalid, err
		}
		val, err := e.eval(list[i].val, next)
		if err != nil {
			return invalid, err
		}
		// ite(cond, val, acc) = (cond & val) | (!cond & acc)
		t := e.mgr.And(cond, val)
		f := e.mgr.And(e.mgr.Not(cond), acc)
		acc = e.mgr.Or(t, f)
	}

	return acc, nil
}

// BaseVar returns the base (unframed) BE node for bit under the variable's
// own class (current-state bits get ClassCurrent, input bits ClassInput),
// never expanding through a define. Package bmc uses this directly to build
// the Loop(l,k) equality constraint over every state bit without going
// through an expression at all.
func (e *Encoder) BaseVar(v registry.Variable, b registry.Bit) ID {
	return e.litFor(v, b, true, false)
}
