package bmc

import (
	"fmt"

	"github.com/katalvlaran/nuxlite/be"
	"github.com/katalvlaran/nuxlite/dagexpr"
)

// ltlKey memoizes ltlEncoder.at by (expression, time index).
type ltlKey struct {
	expr dagexpr.ID
	i    int
}

// ltlEncoder lowers an NNF LTL/PTL formula into a BE node true at a given
// time index, via the standard finite-length (and, when loop>=0, lasso)
// recurrences. Every propositional subformula (no
// temporal operator at its root) is handed to be.Encoder and shifted to the
// requested frame exactly as pathBE shifts init/invar/trans.
type ltlEncoder struct {
	enc   *be.Encoder
	beMgr *be.Manager
	k     int
	loop  int // -1: no loop
	memo  map[ltlKey]be.ID
}

func newLTLEncoder(enc *be.Encoder, beMgr *be.Manager, k, loop int) *ltlEncoder {
	return &ltlEncoder{enc: enc, beMgr: beMgr, k: k, loop: loop, memo: make(map[ltlKey]be.ID)}
}

func (le *ltlEncoder) at(expr dagexpr.ID, i int) (be.ID, error) {
	key := ltlKey{expr: expr, i: i}
	if id, ok := le.memo[key]; ok {
		return id, nil
	}

	id, err := le.atUncached(expr, i)
	if err != nil {
		return 0, err
	}
	le.memo[key] = id

	return id, nil
}

func (le *ltlEncoder) atUncached(expr dagexpr.ID, i int) (be.ID, error) {
	n, ok := le.enc.Interner().Get(expr)
	if !ok {
		return 0, fmt.Errorf("bmc: %w: expr id %d", dagexpr.ErrUnknownID, expr)
	}

	switch n.Tag {
	case dagexpr.TagAnd:
		a, err := le.at(n.Left, i)
		if err != nil {
			return 0, err
		}
		b, err := le.at(n.Right, i)
		if err != nil {
			return 0, err
		}

		return le.beMgr.And(a, b), nil
	case dagexpr.TagOr:
		a, err := le.at(n.Left, i)
		if err != nil {
			return 0, err
		}
		b, err := le.at(n.Right, i)
		if err != nil {
			return 0, err
		}

		return le.beMgr.Or(a, b), nil
	case dagexpr.TagNot:
		a, err := le.at(n.Left, i)
		if err != nil {
			return 0, err
		}

		return le.beMgr.Not(a), nil
	case dagexpr.TagImplies:
		a, err := le.at(n.Left, i)
		if err != nil {
			return 0, err
		}
		b, err := le.at(n.Right, i)
		if err != nil {
			return 0, err
		}

		return le.beMgr.Implies(a, b), nil
	case dagexpr.TagIff:
		a, err := le.at(n.Left, i)
		if err != nil {
			return 0, err
		}
		b, err := le.at(n.Right, i)
		if err != nil {
			return 0, err
		}

		return le.beMgr.Iff(a, b), nil
	case dagexpr.TagOpNext:
		return le.next(n.Left, i)
	case dagexpr.TagOpGlobal:
		return le.globalOrFuture(n.Left, i, true)
	case dagexpr.TagOpFuture:
		return le.globalOrFuture(n.Left, i, false)
	case dagexpr.TagUntil:
		return le.untilOrReleases(n.Left, n.Right, i, true)
	case dagexpr.TagReleases:
		return le.untilOrReleases(n.Left, n.Right, i, false)
	case dagexpr.TagOpPrec:
		return le.yesterday(n.Left, i, false)
	case dagexpr.TagNotPrecNot:
		return le.yesterday(n.Left, i, true)
	case dagexpr.TagHistorically:
		return le.historicallyOrOnce(n.Left, i, true)
	case dagexpr.TagOnce:
		return le.historicallyOrOnce(n.Left, i, false)
	case dagexpr.TagSince:
		return le.sinceOrTriggered(n.Left, n.Right, i, true)
	case dagexpr.TagTriggered:
		return le.sinceOrTriggered(n.Left, n.Right, i, false)
	default:
		base, err := le.enc.ExprToBE(expr)
		if err != nil {
			return 0, err
		}

		return le.beMgr.ShiftCurrNextToTime(base, i), nil
	}
}

// next encodes Xφ at i: the successor frame when one exists on the finite
// prefix, the loop target when the path has reached k with a loop, or False
// when the path simply ends.
func (le *ltlEncoder) next(sub dagexpr.ID, i int) (be.ID, error) {
	if i < le.k {
		return le.at(sub, i+1)
	}
	if le.loop >= 0 {
		return le.at(sub, le.loop)
	}

	return le.beMgr.False(), nil
}

// globalOrFuture encodes Gφ (isGlobal) or Fφ at i. Without a loop, Gφ is
// False (a finite prefix never witnesses it) and Fφ is ⋁ over j=i..k of
// φ_j. With a loop at l, the path from i visits exactly the positions
// min(i,l)..k, so Gφ (resp. Fφ) is ⋀ (resp. ⋁) of φ_j over that range.
func (le *ltlEncoder) globalOrFuture(sub dagexpr.ID, i int, isGlobal bool) (be.ID, error) {
	if isGlobal && le.loop < 0 {
		return le.beMgr.False(), nil
	}
	start := i
	if le.loop >= 0 && le.loop < i {
		start = le.loop
	}

	acc := le.beMgr.True()
	if !isGlobal {
		acc = le.beMgr.False()
	}
	for j := start; j <= le.k; j++ {
		v, err := le.at(sub, j)
		if err != nil {
			return 0, err
		}
		if isGlobal {
			acc = le.beMgr.And(acc, v)
		} else {
			acc = le.beMgr.Or(acc, v)
		}
	}

	return acc, nil
}

// untilOrReleases encodes φUψ (isUntil) or its dual φRψ at i by the
// OR-of-prefixes-AND (resp. AND-of-prefixes-OR) recurrence over the
// positions the path visits from i, in order: i..k, then, with a loop at
// l < i, l..i-1. Without a loop, φRψ additionally needs φ to occur within
// i..k, since a finite prefix never witnesses ψ holding forever.
func (le *ltlEncoder) untilOrReleases(phi, psi dagexpr.ID, i int, isUntil bool) (be.ID, error) {
	acc := le.beMgr.False()
	prefix := le.beMgr.True()
	if !isUntil {
		acc = le.beMgr.True()
		prefix = le.beMgr.False()
	}

	positions := make([]int, 0, le.k+1)
	for j := i; j <= le.k; j++ {
		positions = append(positions, j)
	}
	for j := le.loop; le.loop >= 0 && j < i; j++ {
		positions = append(positions, j)
	}

	for _, j := range positions {
		psij, err := le.at(psi, j)
		if err != nil {
			return 0, err
		}
		var term be.ID
		if isUntil {
			term = le.beMgr.And(psij, prefix)
			acc = le.beMgr.Or(acc, term)
		} else {
			term = le.beMgr.Or(psij, prefix)
			acc = le.beMgr.And(acc, term)
		}

		phij, err := le.at(phi, j)
		if err != nil {
			return 0, err
		}
		if isUntil {
			prefix = le.beMgr.And(prefix, phij)
		} else {
			prefix = le.beMgr.Or(prefix, phij)
		}
	}
	if !isUntil && le.loop < 0 {
		acc = le.beMgr.And(acc, prefix)
	}

	return acc, nil
}

// yesterday encodes Yφ (isZ=false, strict: False at i=0) or Zφ (isZ=true,
// weak: True at i=0) at i.
func (le *ltlEncoder) yesterday(sub dagexpr.ID, i int, isZ bool) (be.ID, error) {
	if i == 0 {
		if isZ {
			return le.beMgr.True(), nil
		}

		return le.beMgr.False(), nil
	}

	return le.at(sub, i-1)
}

// historicallyOrOnce encodes Hφ (isH) or Oφ at i as ⋀ (resp. ⋁) over
// j=0..i of φ_j.
func (le *ltlEncoder) historicallyOrOnce(sub dagexpr.ID, i int, isH bool) (be.ID, error) {
	acc := le.beMgr.True()
	if !isH {
		acc = le.beMgr.False()
	}
	for j := 0; j <= i; j++ {
		v, err := le.at(sub, j)
		if err != nil {
			return 0, err
		}
		if isH {
			acc = le.beMgr.And(acc, v)
		} else {
			acc = le.beMgr.Or(acc, v)
		}
	}

	return acc, nil
}

// sinceOrTriggered encodes φSψ (isSince) or its dual φTψ at i:
// φSψ_i = ⋁_{j=0..i} (ψ_j ∧ ⋀_{n=j+1..i} φ_n)
// φTψ_i = ⋀_{j=0..i} (ψ_j ∨ ⋁_{n=j+1..i} φ_n)
func (le *ltlEncoder) sinceOrTriggered(phi, psi dagexpr.ID, i int, isSince bool) (be.ID, error) {
	result := le.beMgr.False()
	if !isSince {
		result = le.beMgr.True()
	}

	for j := 0; j <= i; j++ {
		psij, err := le.at(psi, j)
		if err != nil {
			return 0, err
		}
		inner := le.beMgr.True()
		if !isSince {
			inner = le.beMgr.False()
		}
		for n := j + 1; n <= i; n++ {
			phin, err := le.at(phi, n)
			if err != nil {
				return 0, err
			}
			if isSince {
				inner = le.beMgr.And(inner, phin)
			} else {
				inner = le.beMgr.Or(inner, phin)
			}
		}

		var term be.ID
		if isSince {
			term = le.beMgr.And(psij, inner)
			result = le.beMgr.Or(result, term)
		} else {
			term = le.beMgr.Or(psij, inner)
			result = le.beMgr.And(result, term)
		}
	}

	return result, nil
}
