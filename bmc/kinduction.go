package bmc

import (
	"context"

	"github.com/katalvlaran/nuxlite/be"
	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/sat"
)

// KInduction drives the Een-Sorensson Base(k)/Step(k) loop
// over invariant candidate psi, incrementing k until either Base finds a
// counterexample (the invariant is false), Step proves no counterexample of
// any length exists beyond what Base already ruled out (the invariant
// holds), or maxK is exhausted inconclusively.
func (e *Engine) KInduction(ctx context.Context, solverName string, psi dagexpr.ID, maxK int, satOpts ...sat.Option) (InvariantResult, error) {
	for k := 0; k <= maxK; k++ {
		base, err := e.checkBase(ctx, solverName, psi, k, satOpts)
		if err != nil {
			return InvariantResult{}, err
		}
		if base.Status == sat.StatusSAT {
			return InvariantResult{Holds: false, K: k, Trace: base.Trace}, nil
		}

		step, err := e.checkStep(ctx, solverName, psi, k, satOpts)
		if err != nil {
			return InvariantResult{}, err
		}
		if step.Status == sat.StatusUNSAT {
			return InvariantResult{Holds: true, K: k}, nil
		}

		e.log.WithField("k", k).Debug("bmc: k-induction inconclusive at this k, incrementing")
	}

	return InvariantResult{}, ErrKInductionInconclusive
}

// checkBase builds Base(k) = I(s0) ∧ V(s0) ∧
// ⋀_{i=0..k-1}(ψ(si) ∧ T(si,ii,si+1) ∧ V(si+1)) ∧ ¬ψ(sk).
func (e *Engine) checkBase(ctx context.Context, solverName string, psi dagexpr.ID, k int, satOpts []sat.Option) (Result, error) {
	psiB, err := e.enc.ExprToBE(psi)
	if err != nil {
		return Result{}, err
	}
	invarB, err := e.enc.ExprToBE(e.sx.Invar)
	if err != nil {
		return Result{}, err
	}
	transB, err := e.enc.ExprToBE(e.sx.Trans)
	if err != nil {
		return Result{}, err
	}
	initB, err := e.enc.ExprToBE(e.sx.Init)
	if err != nil {
		return Result{}, err
	}

	formula := e.beMgr.And(e.beMgr.ShiftCurrNextToTime(initB, 0), e.beMgr.ShiftCurrNextToTime(invarB, 0))
	for i := 0; i < k; i++ {
		formula = e.beMgr.And(formula, e.beMgr.ShiftCurrNextToTime(psiB, i))
		formula = e.beMgr.And(formula, e.beMgr.ShiftCurrNextToTime(transB, i))
		formula = e.beMgr.And(formula, e.beMgr.ShiftCurrNextToTime(invarB, i+1))
	}
	notPsiK := e.beMgr.Not(e.beMgr.ShiftCurrNextToTime(psiB, k))
	formula = e.beMgr.And(formula, notPsiK)

	return e.solveFormula(ctx, solverName, formula, k, satOpts)
}

// checkStep builds Step(k) = ⋀_{i=0..k-1}(T(si,ii,si+1) ∧ V(si+1) ∧ ψ(si)) ∧
// ¬ψ(sk) ∧ Unique(s0..sk-1). UNSAT at this k proves psi.
func (e *Engine) checkStep(ctx context.Context, solverName string, psi dagexpr.ID, k int, satOpts []sat.Option) (Result, error) {
	psiB, err := e.enc.ExprToBE(psi)
	if err != nil {
		return Result{}, err
	}
	invarB, err := e.enc.ExprToBE(e.sx.Invar)
	if err != nil {
		return Result{}, err
	}
	transB, err := e.enc.ExprToBE(e.sx.Trans)
	if err != nil {
		return Result{}, err
	}

	formula := e.beMgr.True()
	for i := 0; i < k; i++ {
		formula = e.beMgr.And(formula, e.beMgr.ShiftCurrNextToTime(transB, i))
		formula = e.beMgr.And(formula, e.beMgr.ShiftCurrNextToTime(invarB, i+1))
		formula = e.beMgr.And(formula, e.beMgr.ShiftCurrNextToTime(psiB, i))
	}
	notPsiK := e.beMgr.Not(e.beMgr.ShiftCurrNextToTime(psiB, k))
	formula = e.beMgr.And(formula, notPsiK)
	formula = e.beMgr.And(formula, e.unique(0, k-1))

	return e.solveFormula(ctx, solverName, formula, k, satOpts)
}

// unique asserts pairwise distinctness of every state cube among times
// lo..hi: a conjunction over i<j of a disjunction, over every state bit, of
// that bit's XOR between times i and j.
func (e *Engine) unique(lo, hi int) be.ID {
	acc := e.beMgr.True()
	for i := lo; i <= hi; i++ {
		for j := i + 1; j <= hi; j++ {
			diff := e.beMgr.False()
			for _, name := range e.stateVars {
				v, ok := e.reg.Variable(name)
				if !ok {
					continue
				}
				for _, b := range v.Bits {
					base := e.enc.BaseVar(v, b)
					atI := e.beMgr.ShiftCurrNextToTime(base, i)
					atJ := e.beMgr.ShiftCurrNextToTime(base, j)
					diff = e.beMgr.Or(diff, e.beMgr.Xor(atI, atJ))
				}
			}
			acc = e.beMgr.And(acc, diff)
		}
	}

	return acc
}
