package bmc

import (
	"context"
	"fmt"

	"github.com/katalvlaran/nuxlite/be"
	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/fsm"
	"github.com/katalvlaran/nuxlite/registry"
	"github.com/katalvlaran/nuxlite/sat"
	"github.com/katalvlaran/nuxlite/trace"
	"github.com/sirupsen/logrus"
)

// Engine unrolls one SexpFSM's (init, invar, trans) into BE-layer Path(k)
// formulas and drives the outer k/loopback search,
// handing a SAT model off to trace.DecodeBMCModel on success.
type Engine struct {
	in        *dagexpr.Interner
	reg       *registry.Registry
	beMgr     *be.Manager
	enc       *be.Encoder
	sx        *fsm.SexpFSM
	stateVars []string
	log       logrus.FieldLogger
}

// NewEngine builds an Engine over sx. stateVars names every declared state
// variable, in any order — Loop(l,k) and Unique(...) both need the full set
// of state-variable bits to quantify over, and neither the registry nor
// SexpFSM exposes that list on its own (package session supplies it from
// the same declaration-order list bdd.IndexNames consumes).
func NewEngine(in *dagexpr.Interner, reg *registry.Registry, beMgr *be.Manager, enc *be.Encoder, sx *fsm.SexpFSM, stateVars []string, log logrus.FieldLogger) *Engine {
	if log == nil {
		l := logrus.New()
		l.SetOutput(discard{})
		log = l
	}

	return &Engine{in: in, reg: reg, beMgr: beMgr, enc: enc, sx: sx, stateVars: stateVars, log: log}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// pathBE builds Path(k) = I(s0) ∧ V(s0) ∧ ⋀_{i=0..k-1} T(si,ii,si+1) ∧
// V(si+1).
func (e *Engine) pathBE(k int) (be.ID, error) {
	initB, err := e.enc.ExprToBE(e.sx.Init)
	if err != nil {
		return 0, err
	}
	invarB, err := e.enc.ExprToBE(e.sx.Invar)
	if err != nil {
		return 0, err
	}
	transB, err := e.enc.ExprToBE(e.sx.Trans)
	if err != nil {
		return 0, err
	}

	acc := e.beMgr.And(e.beMgr.ShiftCurrNextToTime(initB, 0), e.beMgr.ShiftCurrNextToTime(invarB, 0))
	for i := 0; i < k; i++ {
		acc = e.beMgr.And(acc, e.beMgr.ShiftCurrNextToTime(transB, i))
		acc = e.beMgr.And(acc, e.beMgr.ShiftCurrNextToTime(invarB, i+1))
	}

	return acc, nil
}

// loopConstraint builds Loop(l,k) = ⋀ over state bits b. (sl.b ↔ sk.b),
// their bits pairwise.
func (e *Engine) loopConstraint(l, k int) be.ID {
	acc := e.beMgr.True()
	for _, name := range e.stateVars {
		v, ok := e.reg.Variable(name)
		if !ok {
			continue
		}
		for _, b := range v.Bits {
			base := e.enc.BaseVar(v, b)
			atL := e.beMgr.ShiftCurrNextToTime(base, l)
			atK := e.beMgr.ShiftCurrNextToTime(base, k)
			acc = e.beMgr.And(acc, e.beMgr.Iff(atL, atK))
		}
	}

	return acc
}

// CheckLTL runs the outer increasingK loop over
// property's negation, stopping at the first SAT (a counterexample) or
// exhausting cfg.KMax (no counterexample found within the bound).
func (e *Engine) CheckLTL(ctx context.Context, solverName string, property dagexpr.ID, cfg Config, satOpts ...sat.Option) (Result, error) {
	negPhi, err := dagexpr.NNF(e.in, property, true)
	if err != nil {
		return Result{}, err
	}

	kMin := cfg.KMax
	if cfg.Increasing {
		kMin = cfg.KMin
	}

	var last Result
	for k := kMin; k <= cfg.KMax; k++ {
		res, err := e.tryK(ctx, solverName, negPhi, k, cfg, satOpts)
		if err != nil {
			return Result{}, err
		}
		if res.Status == sat.StatusSAT {
			return res, nil
		}
		if res.Status != sat.StatusUNSAT {
			// Timeout/Memout/InternalError: fatal for this property
			return res, nil
		}
		last = res
		e.log.WithField("k", k).Debug("bmc: no counterexample up to this k")
	}

	return last, nil
}

func (e *Engine) tryK(ctx context.Context, solverName string, negPhi dagexpr.ID, k int, cfg Config, satOpts []sat.Option) (Result, error) {
	path, err := e.pathBE(k)
	if err != nil {
		return Result{}, err
	}

	var formula be.ID
	loop := -1
	var loopCandidates map[int]be.ID

	switch cfg.Mode {
	case NoLoop:
		le := newLTLEncoder(e.enc, e.beMgr, k, -1)
		negEnc, err := le.at(negPhi, 0)
		if err != nil {
			return Result{}, err
		}
		formula = e.beMgr.And(path, negEnc)

	case SingleLoop:
		l := cfg.L
		if l < 0 {
			l = k + l // relative encoding -(k-l) -> absolute l
		}
		if l < 0 || l >= k {
			e.log.WithField("k", k).WithField("loop", cfg.L).Warn("bmc: loopback index out of range for this k, skipping")

			return Result{Status: sat.StatusUNSAT, K: k, Loop: -1}, nil
		}
		loopC := e.loopConstraint(l, k)
		le := newLTLEncoder(e.enc, e.beMgr, k, l)
		negEnc, err := le.at(negPhi, 0)
		if err != nil {
			return Result{}, err
		}
		formula = e.beMgr.And(e.beMgr.And(path, loopC), negEnc)
		loop = l

	case AllLoops:
		loopCandidates = make(map[int]be.ID, k)
		disj := e.beMgr.False()
		for l := 0; l < k; l++ {
			loopC := e.loopConstraint(l, k)
			loopCandidates[l] = loopC
			le := newLTLEncoder(e.enc, e.beMgr, k, l)
			negEnc, err := le.at(negPhi, 0)
			if err != nil {
				return Result{}, err
			}
			branch := e.beMgr.And(loopC, negEnc)
			disj = e.beMgr.Or(disj, branch)
		}
		formula = e.beMgr.And(path, disj)

	default:
		return Result{}, fmt.Errorf("bmc: unknown loopback mode %v", cfg.Mode)
	}

	cnf := e.beMgr.ConvertToCNF(formula)
	facade, err := sat.Create(solverName, satOpts...)
	if err != nil {
		return Result{}, err
	}
	defer facade.Destroy()

	if err := facade.Add(cnf, "bmc"); err != nil {
		return Result{}, err
	}
	if err := facade.SetPolarity(cnf, 1, "bmc"); err != nil {
		return Result{}, err
	}

	status, err := facade.SolveAllGroups(ctx)
	if err != nil {
		return Result{}, err
	}
	if status != sat.StatusSAT {
		return Result{Status: status, K: k, Loop: -1}, nil
	}

	model, err := facade.GetModel()
	if err != nil {
		return Result{}, err
	}

	if cfg.Mode == AllLoops {
		loop = e.detectLoop(model, cnf, loopCandidates)
	}

	tr := trace.DecodeBMCModel(e.beMgr, cnf, model, e.reg, k, loop)

	return Result{Status: sat.StatusSAT, K: k, Loop: loop, Trace: tr}, nil
}

// detectLoop determines which candidate loop point an AllLoops model
// actually satisfies, re-evaluating each Loop(l,k) constraint directly
// against the model rather than rerunning the solver (the disjunction's
// satisfying branch is not otherwise recoverable from the Assignment
// alone, since several candidates can be simultaneously consistent and any
// one of them is a valid witness).
func (e *Engine) detectLoop(model sat.Assignment, cnf be.CNF, candidates map[int]be.ID) int {
	valueOf := func(id be.ID) (bool, bool) {
		dvar, ok := cnf.VarMap[id]
		if !ok {
			return false, false
		}
		v, ok := model[dvar]

		return v, ok
	}
	for l, c := range candidates {
		if e.beMgr.EvalUnderModel(c, valueOf) {
			return l
		}
	}

	return -1
}

// solveFormula is the shared Path(k)-formula-to-Result plumbing k-induction
// uses directly (it never needs loop detection, since Base/Step never loop
// at all).
func (e *Engine) solveFormula(ctx context.Context, solverName string, formula be.ID, k int, satOpts []sat.Option) (Result, error) {
	cnf := e.beMgr.ConvertToCNF(formula)
	facade, err := sat.Create(solverName, satOpts...)
	if err != nil {
		return Result{}, err
	}
	defer facade.Destroy()

	if err := facade.Add(cnf, "bmc"); err != nil {
		return Result{}, err
	}
	if err := facade.SetPolarity(cnf, 1, "bmc"); err != nil {
		return Result{}, err
	}

	status, err := facade.SolveAllGroups(ctx)
	if err != nil {
		return Result{}, err
	}
	if status != sat.StatusSAT {
		return Result{Status: status, K: k, Loop: -1}, nil
	}

	model, err := facade.GetModel()
	if err != nil {
		return Result{}, err
	}

	tr := trace.DecodeBMCModel(e.beMgr, cnf, model, e.reg, k, -1)

	return Result{Status: sat.StatusSAT, K: k, Loop: -1, Trace: tr}, nil
}
