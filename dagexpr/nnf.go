package dagexpr

import "fmt"

// NNF rewrites expr into negation normal form, pushing Not through every
// Boolean connective and LTL/PTL temporal operator so that any Not node
// remaining in the result wraps a propositional subformula (no nested
// temporal operator). Both consumers need exactly this shape: the BMC
// encoder's finite-length recurrences handle each temporal operator only in
// positive form, and the LTL tableau is synthesized for the negated
// property after NNF. negate requests the negation
// of expr itself; the recursion tracks whether it is still inside an odd
// number of negations at each node.
func NNF(in *Interner, expr ID, negate bool) (ID, error) {
	n, ok := in.Get(expr)
	if !ok {
		return Empty, fmt.Errorf("dagexpr: %w: expr id %d", ErrUnknownID, expr)
	}

	if !negate {
		switch n.Tag {
		case TagAnd, TagOr, TagImplies, TagIff,
			TagUntil, TagReleases, TagSince, TagTriggered:
			l, err := NNF(in, n.Left, false)
			if err != nil {
				return 0, err
			}
			r, err := NNF(in, n.Right, false)
			if err != nil {
				return 0, err
			}

			return in.Intern(n.Tag, l, r, n.Line), nil
		case TagOpNext, TagOpGlobal, TagOpFuture,
			TagOpPrec, TagNotPrecNot, TagHistorically, TagOnce:
			l, err := NNF(in, n.Left, false)
			if err != nil {
				return 0, err
			}

			return in.Intern(n.Tag, l, Empty, n.Line), nil
		case TagNot:
			return NNF(in, n.Left, true)
		default:
			return expr, nil // propositional leaf/subformula, left untouched
		}
	}

	switch n.Tag {
	case TagNot:
		return NNF(in, n.Left, false)
	case TagAnd:
		return nnfBinary(in, n, true, TagOr)
	case TagOr:
		return nnfBinary(in, n, true, TagAnd)
	case TagImplies:
		// ¬(a -> b) = a ∧ ¬b
		l, err := NNF(in, n.Left, false)
		if err != nil {
			return 0, err
		}
		r, err := NNF(in, n.Right, true)
		if err != nil {
			return 0, err
		}

		return in.Intern(TagAnd, l, r, n.Line), nil
	case TagIff:
		// ¬(a <-> b) = (a ∧ ¬b) ∨ (¬a ∧ b)
		a0, err := NNF(in, n.Left, false)
		if err != nil {
			return 0, err
		}
		b1, err := NNF(in, n.Right, true)
		if err != nil {
			return 0, err
		}
		a1, err := NNF(in, n.Left, true)
		if err != nil {
			return 0, err
		}
		b0, err := NNF(in, n.Right, false)
		if err != nil {
			return 0, err
		}
		left := in.Intern(TagAnd, a0, b1, n.Line)
		right := in.Intern(TagAnd, a1, b0, n.Line)

		return in.Intern(TagOr, left, right, n.Line), nil
	case TagOpGlobal: // ¬Gφ = F¬φ
		return nnfUnary(in, n, TagOpFuture)
	case TagOpFuture: // ¬Fφ = G¬φ
		return nnfUnary(in, n, TagOpGlobal)
	case TagOpNext: // ¬Xφ = X¬φ
		return nnfUnary(in, n, TagOpNext)
	case TagUntil: // ¬(aUb) = ¬a R ¬b
		return nnfBinary(in, n, true, TagReleases)
	case TagReleases: // ¬(aRb) = ¬a U ¬b
		return nnfBinary(in, n, true, TagUntil)
	case TagOpPrec: // ¬Yφ = Z¬φ
		return nnfUnary(in, n, TagNotPrecNot)
	case TagNotPrecNot: // ¬Zφ = Y¬φ
		return nnfUnary(in, n, TagOpPrec)
	case TagHistorically: // ¬Hφ = O¬φ
		return nnfUnary(in, n, TagOnce)
	case TagOnce: // ¬Oφ = H¬φ
		return nnfUnary(in, n, TagHistorically)
	case TagSince: // ¬(aSb) = ¬a T ¬b
		return nnfBinary(in, n, true, TagTriggered)
	case TagTriggered: // ¬(aTb) = ¬a S ¬b
		return nnfBinary(in, n, true, TagSince)
	default:
		return in.Intern(TagNot, expr, Empty, n.Line), nil
	}
}

func nnfUnary(in *Interner, n Node, dualTag Tag) (ID, error) {
	l, err := NNF(in, n.Left, true)
	if err != nil {
		return 0, err
	}

	return in.Intern(dualTag, l, Empty, n.Line), nil
}

func nnfBinary(in *Interner, n Node, negateChildren bool, dualTag Tag) (ID, error) {
	l, err := NNF(in, n.Left, negateChildren)
	if err != nil {
		return 0, err
	}
	r, err := NNF(in, n.Right, negateChildren)
	if err != nil {
		return 0, err
	}

	return in.Intern(dualTag, l, r, n.Line), nil
}
