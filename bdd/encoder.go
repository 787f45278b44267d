package bdd

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"

	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/registry"
)

// Encoder lowers hash-consed Boolean expressions into BDDs over a fixed
// Indexer/Manager pair, expanding defines on first use (memoized per
// current/next frame) and detecting circular defines.
//
// CASE expressions are represented in the expression DAG as a TagCons-
// linked list of TagColon(condition, value) pairs rooted at the TagCase
// node's Left child, terminated by dagexpr.Empty; the last arm is the
// default (its condition is conventionally TagTrue). expr_to_bdd folds
// this list from the last arm backward into nested ITEs, so the first
// matching guard wins.
type Encoder struct {
	in  *dagexpr.Interner
	reg *registry.Registry
	idx *Indexer
	mgr *Manager

	memoCurr map[dagexpr.ID]ID
	memoNext map[dagexpr.ID]ID
	inFlight map[string]bool // define names currently being expanded, for cycle detection
}

// NewEncoder builds an Encoder over an already-encoded registry, its
// expression interner and a Manager sized for idx.
func NewEncoder(in *dagexpr.Interner, reg *registry.Registry, idx *Indexer, mgr *Manager) *Encoder {
	return &Encoder{
		in:       in,
		reg:      reg,
		idx:      idx,
		mgr:      mgr,
		memoCurr: make(map[dagexpr.ID]ID),
		memoNext: make(map[dagexpr.ID]ID),
		inFlight: make(map[string]bool),
	}
}

// ExprToBDD evaluates expr as a Boolean formula in the current-state frame.
func (e *Encoder) ExprToBDD(expr dagexpr.ID) (ID, error) {
	return e.eval(expr, false)
}

// ExprToBDDNext evaluates expr in the next-state frame: every state
// variable atom resolves to its next-state BDD variable instead of its
// current-state one. It is the encoder's implementation of NEXT(expr) one
// level in, since NEXT itself just flips this flag for its subexpression.
func (e *Encoder) ExprToBDDNext(expr dagexpr.ID) (ID, error) {
	return e.eval(expr, true)
}

func (e *Encoder) eval(expr dagexpr.ID, next bool) (ID, error) {
	memo := e.memoCurr
	if next {
		memo = e.memoNext
	}
	if id, ok := memo[expr]; ok {
		return e.mgr.Ref(id), nil
	}

	id, err := e.evalUncached(expr, next)
	if err != nil {
		return invalid, err
	}
	memo[expr] = id

	return e.mgr.Ref(id), nil
}

func (e *Encoder) evalUncached(expr dagexpr.ID, next bool) (ID, error) {
	n, ok := e.in.Get(expr)
	if !ok {
		return invalid, fmt.Errorf("bdd: %w: expr id %d", dagexpr.ErrUnknownID, expr)
	}

	switch n.Tag {
	case dagexpr.TagTrue:
		return e.mgr.Ref(True), nil
	case dagexpr.TagFalse:
		return e.mgr.Ref(False), nil
	case dagexpr.TagAtom:
		return e.evalAtom(n.Atom, next)
	case dagexpr.TagNot:
		a, err := e.eval(n.Left, next)
		if err != nil {
			return invalid, err
		}
		r := e.mgr.Not(a)
		e.mgr.Deref(a)

		return r, nil
	case dagexpr.TagAnd, dagexpr.TagOr, dagexpr.TagXor, dagexpr.TagImplies, dagexpr.TagIff:
		return e.evalBinary(n, next)
	case dagexpr.TagEqual, dagexpr.TagNotEqual:
		return e.evalEquality(n, next)
	case dagexpr.TagNext:
		if next {
			return invalid, fmt.Errorf("bdd: %w: nested NEXT", ErrUnsupportedTag)
		}

		return e.eval(n.Left, true)
	case dagexpr.TagCase:
		return e.evalCase(n.Left, next)
	default:
		return invalid, fmt.Errorf("bdd: %w: tag %d", ErrUnsupportedTag, n.Tag)
	}
}

func (e *Encoder) evalBinary(n dagexpr.Node, next bool) (ID, error) {
	a, err := e.eval(n.Left, next)
	if err != nil {
		return invalid, err
	}
	b, err := e.eval(n.Right, next)
	if err != nil {
		e.mgr.Deref(a)

		return invalid, err
	}
	defer e.mgr.Deref(a)
	defer e.mgr.Deref(b)

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
		x := e.mgr.Xor(a, b)
		r := e.mgr.Not(x)
		e.mgr.Deref(x)

		return r, nil
	}

	return invalid, fmt.Errorf("bdd: %w: tag %d", ErrUnsupportedTag, n.Tag)
}

// evalAtom resolves a bare identifier: a Boolean (width-1) var/define/
// constant reads as its TRUE-valued BDD; anything wider must appear under
// an equality, never bare, so evalAtom rejects it.
func (e *Encoder) evalAtom(name string, next bool) (ID, error) {
	if e.reg.IsDefine(name) {
		return e.evalDefine(name, next)
	}
	if e.reg.IsSymbolVar(name) {
		v, _ := e.reg.Variable(name)
		if v.Range.Width() != 1 {
			return invalid, fmt.Errorf("bdd: %w: %q", ErrNotABooleanVar, name)
		}

		return e.litFor(v.Bits[0], true, next)
	}

	return invalid, fmt.Errorf("bdd: %w: %q", registry.ErrUndefined, name)
}

func (e *Encoder) evalDefine(name string, next bool) (ID, error) {
	if e.inFlight[name] {
		return invalid, fmt.Errorf("bdd: %w: %q", ErrCircularDefine, name)
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

// litFor returns bit's current- or next-state literal, negated when value
// is false.
func (e *Encoder) litFor(b registry.Bit, value, next bool) (ID, error) {
	var v int
	var ok bool
	if next {
		v, ok = e.idx.Next(b)
		if !ok {
			v, ok = e.idx.Current(b) // input bits fall back to their single (current) index
		}
	} else {
		v, ok = e.idx.Current(b)
	}
	if !ok {
		return invalid, fmt.Errorf("bdd: %w: bit %s.%d", ErrVarOutOfRange, b.Var, b.Index)
	}
	if value {
		return e.mgr.Var(v)
	}

	return e.mgr.NVar(v)
}

// evalEquality bit-blasts `lhs = rhs` / `lhs != rhs` between a symbol and a
// literal constant drawn from the symbol's declared range, XNOR-folding
// each bit of the constant's binary index against the symbol's bit vector.
func (e *Encoder) evalEquality(n dagexpr.Node, next bool) (ID, error) {
	lhs, ok := e.in.Get(n.Left)
	if !ok || lhs.Tag != dagexpr.TagAtom {
		return invalid, fmt.Errorf("bdd: %w: equality lhs must be a symbol", ErrUnsupportedTag)
	}
	rhs, ok := e.in.Get(n.Right)
	if !ok {
		return invalid, fmt.Errorf("bdd: %w: equality rhs id %d", dagexpr.ErrUnknownID, n.Right)
	}

	v, ok := e.reg.Variable(lhs.Atom)
	if !ok {
		return invalid, fmt.Errorf("bdd: %w: %q", registry.ErrUndefined, lhs.Atom)
	}

	idxVal, err := indexOfConstant(v.Range, rhs.Atom)
	if err != nil {
		return invalid, err
	}
	if idxVal < 0 {
		// A numeric constant outside the declared range: the equality is
		// constantly false (and the disequality constantly true).
		if n.Tag == dagexpr.TagNotEqual {
			return e.mgr.Ref(True), nil
		}

		return e.mgr.Ref(False), nil
	}

	acc := e.mgr.Ref(True)
	width := len(v.Bits)
	for i := 0; i < width; i++ {
		bitVal := (idxVal>>(width-1-i))&1 == 1
		lit, err := e.litFor(v.Bits[i], true, next)
		if err != nil {
			e.mgr.Deref(acc)

			return invalid, err
		}
		matched := lit
		if !bitVal {
			matched = e.mgr.Not(lit)
			e.mgr.Deref(lit)
		}
		next2 := e.mgr.And(acc, matched)
		e.mgr.Deref(acc)
		e.mgr.Deref(matched)
		acc = next2
	}

	if n.Tag == dagexpr.TagNotEqual {
		r := e.mgr.Not(acc)
		e.mgr.Deref(acc)

		return r, nil
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

	return 0, fmt.Errorf("bdd: %w: %q not in range", registry.ErrUndefined, name)
}

// evalCase folds a Cons-linked TagColon(cond, val) arm list, last arm
// first, into nested ITEs: ite(cond1, val1, ite(cond2, val2, ... default)).
func (e *Encoder) evalCase(arms dagexpr.ID, next bool) (ID, error) {
	type arm struct{ cond, val dagexpr.ID }
	var list []arm
	for cur := arms; cur != dagexpr.Empty; {
		consNode, ok := e.in.Get(cur)
		if !ok || consNode.Tag != dagexpr.TagCons {
			return invalid, fmt.Errorf("bdd: %w: malformed case arm list", ErrUnsupportedTag)
		}
		colonNode, ok := e.in.Get(consNode.Left)
		if !ok || colonNode.Tag != dagexpr.TagColon {
			return invalid, fmt.Errorf("bdd: %w: malformed case arm", ErrUnsupportedTag)
		}
		list = append(list, arm{cond: colonNode.Left, val: colonNode.Right})
		cur = consNode.Right
	}
	if len(list) == 0 {
		return invalid, fmt.Errorf("bdd: %w: empty case", ErrUnsupportedTag)
	}

	acc, err := e.eval(list[len(list)-1].val, next)
	if err != nil {
		return invalid, err
	}
	for i := len(list) - 2; i >= 0; i-- {
		cond, err := e.eval(list[i].cond, next)
		if err != nil {
			e.mgr.Deref(acc)

			return invalid, err
		}
		val, err := e.eval(list[i].val, next)
		if err != nil {
			e.mgr.Deref(acc)
			e.mgr.Deref(cond)

			return invalid, err
		}
		ite := e.mgr.Ite(cond, val, acc)
		e.mgr.Deref(cond)
		e.mgr.Deref(val)
		e.mgr.Deref(acc)
		acc = ite
	}

	return acc, nil
}

// WriteOrder renders the current variable ordering, one name per line
// (bitMode=true appends ".i" bit suffixes, matching the format
// ParseOrderingFile reads back).
func (e *Encoder) WriteOrder(bitMode bool) []string {
	var out []string
	for _, b := range e.idx.Order() {
		if bitMode {
			out = append(out, fmt.Sprintf("%s.%d", b.Var, b.Index))
		} else {
			out = append(out, b.Var)
		}
	}

	return out
}

// PickOneState returns one satisfying state as "name = value" assignments,
// chosen deterministically by Manager.PickOneMinterm, restricted to
// current-state variable bits (input bits, if any remain free in set, are
// ignored).
func (e *Encoder) PickOneState(set ID) (map[string]string, error) {
	assign, ok := e.mgr.PickOneMinterm(set)
	if !ok {
		return nil, fmt.Errorf("bdd: pick_one_state: set is unsatisfiable")
	}

	return e.decodeStateAssignment(assign)
}

// PickOneStateRand is the randomized variant of PickOneState: minterm
// choice is driven by rng instead of the ordering-determined default, for
// fuzzing and randomized simulation fronts.
func (e *Encoder) PickOneStateRand(set ID, rng *rand.Rand) (map[string]string, error) {
	assign, ok := e.mgr.PickOneMintermRand(set, rng)
	if !ok {
		return nil, fmt.Errorf("bdd: pick_one_state_rand: set is unsatisfiable")
	}

	return e.decodeStateAssignment(assign)
}

// StateMask returns the constraint that every state variable's bit vector
// encodes one of its declared range values, ruling out the spare bit
// patterns a non-power-of-two range leaves unused. The caller owns the
// returned handle.
func (e *Encoder) StateMask() (ID, error) { return e.mask(registry.KindState) }

// InputMask is StateMask's input-variable counterpart.
func (e *Encoder) InputMask() (ID, error) { return e.mask(registry.KindInput) }

func (e *Encoder) mask(kind registry.Kind) (ID, error) {
	acc := e.mgr.Ref(True)
	for _, b := range e.idx.Order() {
		if b.Index != 0 {
			continue
		}
		v, ok := e.reg.Variable(b.Var)
		if !ok || v.Kind != kind {
			continue
		}
		size := v.Range.Size()
		width := len(v.Bits)
		if width == 0 || size == 1<<width {
			continue
		}

		valid := e.mgr.Ref(False)
		for val := 0; val < size; val++ {
			cube, err := e.valueCube(v, val, false)
			if err != nil {
				e.mgr.Deref(acc)
				e.mgr.Deref(valid)

				return invalid, err
			}
			grown := e.mgr.Or(valid, cube)
			e.mgr.Deref(valid)
			e.mgr.Deref(cube)
			valid = grown
		}
		next := e.mgr.And(acc, valid)
		e.mgr.Deref(acc)
		e.mgr.Deref(valid)
		acc = next
	}

	return acc, nil
}

// valueCube builds the bit-cube asserting that v's bit vector encodes range
// index val.
func (e *Encoder) valueCube(v registry.Variable, val int, next bool) (ID, error) {
	acc := e.mgr.Ref(True)
	width := len(v.Bits)
	for i := 0; i < width; i++ {
		bitVal := (val>>(width-1-i))&1 == 1
		lit, err := e.litFor(v.Bits[i], bitVal, next)
		if err != nil {
			e.mgr.Deref(acc)

			return invalid, err
		}
		grown := e.mgr.And(acc, lit)
		e.mgr.Deref(acc)
		e.mgr.Deref(lit)
		acc = grown
	}

	return acc, nil
}

func (e *Encoder) decodeStateAssignment(bitVals map[int]bool) (map[string]string, error) {
	byVar := make(map[string][]bool)
	for _, b := range e.idx.Order() {
		cur, ok := e.idx.Current(b)
		if !ok {
			continue
		}
		val := bitVals[cur]
		w := ensureLen(byVar[b.Var], b.Index+1)
		w[b.Index] = val
		byVar[b.Var] = w
	}

	out := make(map[string]string, len(byVar))
	for name, bitArr := range byVar {
		v, ok := e.reg.Variable(name)
		if !ok || v.Kind != registry.KindState {
			continue
		}
		idx := 0
		for i, bit := range bitArr {
			if bit {
				idx |= 1 << (len(bitArr) - 1 - i)
			}
		}
		if idx < len(v.Range.Values) {
			out[name] = v.Range.Values[idx]
		}
	}

	return out, nil
}

func ensureLen(s []bool, n int) []bool {
	for len(s) < n {
		s = append(s, false)
	}

	return s
}

// PrintBDD picks one satisfying state of set (as PickOneState does) and
// renders it as "name = value" lines, one per variable, sorted by variable
// name; changesOnly restricts the listing to variables whose value differs
// from base.
func (e *Encoder) PrintBDD(set ID, base map[string]string, changesOnly bool) ([]string, error) {
	assign, err := e.PickOneState(set)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(assign))
	for name := range assign {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		if changesOnly && base != nil && base[name] == assign[name] {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s = %s", name, assign[name]))
	}

	return lines, nil
}
