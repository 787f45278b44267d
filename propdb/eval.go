package propdb

import (
	"fmt"
	"strconv"

	"github.com/katalvlaran/nuxlite/bdd"
	"github.com/katalvlaran/nuxlite/ctl"
	"github.com/katalvlaran/nuxlite/dagexpr"
)

// evalCTL lowers a CTL formula to the BDD of its satisfying states,
// dispatching temporal tags to the fixpoint evaluator and everything else
// to the expression encoder. The returned handle is owned by the caller.
func (db *DB) evalCTL(env *modelEnv, ck *ctl.Checker, expr dagexpr.ID) (bdd.ID, error) {
	n, ok := db.in.Get(expr)
	if !ok {
		return 0, fmt.Errorf("propdb: %w: expr id %d", dagexpr.ErrUnknownID, expr)
	}

	unary := func(apply func(bdd.ID) bdd.ID) (bdd.ID, error) {
		sub, err := db.evalCTL(env, ck, n.Left)
		if err != nil {
			return 0, err
		}
		out := apply(sub)
		env.mgr.Deref(sub)

		return out, nil
	}
	binary := func(apply func(a, b bdd.ID) bdd.ID) (bdd.ID, error) {
		a, err := db.evalCTL(env, ck, n.Left)
		if err != nil {
			return 0, err
		}
		b, err := db.evalCTL(env, ck, n.Right)
		if err != nil {
			env.mgr.Deref(a)

			return 0, err
		}
		out := apply(a, b)
		env.mgr.Deref(a)
		env.mgr.Deref(b)

		return out, nil
	}

	switch n.Tag {
	case dagexpr.TagEX:
		return unary(ck.EX)
	case dagexpr.TagEF:
		return unary(ck.EF)
	case dagexpr.TagEG:
		return unary(ck.EG)
	case dagexpr.TagAX:
		return unary(ck.AX)
	case dagexpr.TagAF:
		return unary(ck.AF)
	case dagexpr.TagAG:
		return unary(ck.AG)
	case dagexpr.TagEU:
		return binary(ck.EU)
	case dagexpr.TagAU:
		return binary(ck.AU)

	case dagexpr.TagEBF, dagexpr.TagABF, dagexpr.TagEBG, dagexpr.TagABG:
		l, u, body, err := db.boundedUnary(n)
		if err != nil {
			return 0, err
		}
		sub, err := db.evalCTL(env, ck, body)
		if err != nil {
			return 0, err
		}
		var out bdd.ID
		switch n.Tag {
		case dagexpr.TagEBF:
			out = ck.EBF(l, u, sub)
		case dagexpr.TagABF:
			out = ck.ABF(l, u, sub)
		case dagexpr.TagEBG:
			out = ck.EBG(l, u, sub)
		default:
			out = ck.ABG(l, u, sub)
		}
		env.mgr.Deref(sub)

		return out, nil

	case dagexpr.TagEBU, dagexpr.TagABU:
		l, u, phi, psi, err := db.boundedBinary(n)
		if err != nil {
			return 0, err
		}
		a, err := db.evalCTL(env, ck, phi)
		if err != nil {
			return 0, err
		}
		b, err := db.evalCTL(env, ck, psi)
		if err != nil {
			env.mgr.Deref(a)

			return 0, err
		}
		var out bdd.ID
		if n.Tag == dagexpr.TagEBU {
			out = ck.EBU(l, u, a, b)
		} else {
			out = ck.ABU(l, u, a, b)
		}
		env.mgr.Deref(a)
		env.mgr.Deref(b)

		return out, nil

	case dagexpr.TagNot:
		return unary(env.mgr.Not)
	case dagexpr.TagAnd:
		return binary(env.mgr.And)
	case dagexpr.TagOr:
		return binary(env.mgr.Or)
	case dagexpr.TagXor:
		return binary(env.mgr.Xor)
	case dagexpr.TagImplies:
		return binary(env.mgr.Implies)
	case dagexpr.TagIff:
		return binary(func(a, b bdd.ID) bdd.ID {
			x := env.mgr.Xor(a, b)
			r := env.mgr.Not(x)
			env.mgr.Deref(x)

			return r
		})

	default:
		// Propositional subformula: the encoder owns it wholesale.
		return env.enc.ExprToBDD(expr)
	}
}

// boundedUnary unpacks EBF/ABF/EBG/ABG's AST shape: Left is the operand,
// Right a COLON pair of numeric bounds.
func (db *DB) boundedUnary(n dagexpr.Node) (l, u int, body dagexpr.ID, err error) {
	l, u, err = db.bounds(n.Right)

	return l, u, n.Left, err
}

// boundedBinary unpacks EBU/ABU's AST shape: Left is a CONS pair of the two
// operands, Right a COLON pair of numeric bounds.
func (db *DB) boundedBinary(n dagexpr.Node) (l, u int, phi, psi dagexpr.ID, err error) {
	pair, ok := db.in.Get(n.Left)
	if !ok || pair.Tag != dagexpr.TagCons {
		return 0, 0, 0, 0, fmt.Errorf("%w: bounded until operands", ErrBadBound)
	}
	l, u, err = db.bounds(n.Right)

	return l, u, pair.Left, pair.Right, err
}

func (db *DB) bounds(id dagexpr.ID) (int, int, error) {
	pair, ok := db.in.Get(id)
	if !ok || pair.Tag != dagexpr.TagColon {
		return 0, 0, ErrBadBound
	}
	l, err := db.boundValue(pair.Left)
	if err != nil {
		return 0, 0, err
	}
	u, err := db.boundValue(pair.Right)
	if err != nil {
		return 0, 0, err
	}
	if l < 0 || u < l {
		return 0, 0, fmt.Errorf("%w: %d..%d", ErrBadBound, l, u)
	}

	return l, u, nil
}

func (db *DB) boundValue(id dagexpr.ID) (int, error) {
	n, ok := db.in.Get(id)
	if !ok || n.Tag != dagexpr.TagNumber {
		return 0, ErrBadBound
	}
	v, err := strconv.Atoi(n.Atom)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadBound, n.Atom)
	}

	return v, nil
}

// agOnlyConjuncts reports whether expr is a conjunction of AG nodes over
// propositional bodies — the shape the AG-only fast path accepts — and
// returns the bodies when it is.
func (db *DB) agOnlyConjuncts(expr dagexpr.ID) ([]dagexpr.ID, bool) {
	n, ok := db.in.Get(expr)
	if !ok {
		return nil, false
	}
	switch n.Tag {
	case dagexpr.TagAnd:
		left, okL := db.agOnlyConjuncts(n.Left)
		right, okR := db.agOnlyConjuncts(n.Right)
		if !okL || !okR {
			return nil, false
		}

		return append(left, right...), true
	case dagexpr.TagAG:
		if db.containsTemporal(n.Left) {
			return nil, false
		}

		return []dagexpr.ID{n.Left}, true
	default:
		return nil, false
	}
}

// containsTemporal reports whether expr mentions any CTL or LTL operator.
func (db *DB) containsTemporal(expr dagexpr.ID) bool {
	if expr == dagexpr.Empty {
		return false
	}
	n, ok := db.in.Get(expr)
	if !ok {
		return false
	}
	switch n.Tag {
	case dagexpr.TagEX, dagexpr.TagEG, dagexpr.TagEF, dagexpr.TagEU,
		dagexpr.TagAX, dagexpr.TagAG, dagexpr.TagAF, dagexpr.TagAU,
		dagexpr.TagEBU, dagexpr.TagABU, dagexpr.TagEBF, dagexpr.TagABF,
		dagexpr.TagEBG, dagexpr.TagABG,
		dagexpr.TagOpNext, dagexpr.TagOpGlobal, dagexpr.TagOpFuture,
		dagexpr.TagUntil, dagexpr.TagReleases,
		dagexpr.TagOpPrec, dagexpr.TagNotPrecNot, dagexpr.TagSince,
		dagexpr.TagTriggered, dagexpr.TagHistorically, dagexpr.TagOnce:
		return true
	}

	return db.containsTemporal(n.Left) || db.containsTemporal(n.Right)
}

// classifyTemporal walks expr and reports whether it uses CTL path
// quantifiers and whether it uses LTL operators — the PSL lazy-lowering
// discriminator.
func (db *DB) classifyTemporal(expr dagexpr.ID) (hasCTL, hasLTL bool) {
	if expr == dagexpr.Empty {
		return false, false
	}
	n, ok := db.in.Get(expr)
	if !ok {
		return false, false
	}
	switch n.Tag {
	case dagexpr.TagEX, dagexpr.TagEG, dagexpr.TagEF, dagexpr.TagEU,
		dagexpr.TagAX, dagexpr.TagAG, dagexpr.TagAF, dagexpr.TagAU,
		dagexpr.TagEBU, dagexpr.TagABU, dagexpr.TagEBF, dagexpr.TagABF,
		dagexpr.TagEBG, dagexpr.TagABG:
		hasCTL = true
	case dagexpr.TagOpNext, dagexpr.TagOpGlobal, dagexpr.TagOpFuture,
		dagexpr.TagUntil, dagexpr.TagReleases,
		dagexpr.TagOpPrec, dagexpr.TagNotPrecNot, dagexpr.TagSince,
		dagexpr.TagTriggered, dagexpr.TagHistorically, dagexpr.TagOnce:
		hasLTL = true
	}
	lc, ll := db.classifyTemporal(n.Left)
	rc, rl := db.classifyTemporal(n.Right)

	return hasCTL || lc || rc, hasLTL || ll || rl
}
