package propdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/nuxlite/bdd"
	"github.com/katalvlaran/nuxlite/be"
	"github.com/katalvlaran/nuxlite/bmc"
	"github.com/katalvlaran/nuxlite/ctl"
	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/ltlx"
	"github.com/katalvlaran/nuxlite/sat"
	"github.com/katalvlaran/nuxlite/trace"
)

// verifyOrder is the observable kind ordering.
var verifyOrder = []Kind{KindCTL, KindCompute, KindLTL, KindPSL, KindInvar}

// VerifyAll verifies every Unchecked property in database order by kind
// (CTL, COMPUTE, LTL, PSL, INVAR), ascending index within a kind. A
// property that fails with a solver-class error is reported and skipped;
// the remaining properties still run. The
// joined error carries every per-property failure.
func (db *DB) VerifyAll(ctx context.Context) error {
	var errs []error
	for _, kind := range verifyOrder {
		for _, p := range db.props {
			if p.Kind != kind {
				continue
			}
			if err := db.Verify(ctx, p.Index); err != nil {
				db.log.WithField("property", p.Index).WithError(err).Warn("propdb: verification failed")
				errs = append(errs, fmt.Errorf("property %d: %w", p.Index, err))
			}
		}
	}

	return errors.Join(errs...)
}

// Verify decides the property at index with the algorithm its kind
// selects: CTL through the fixpoint evaluator (AG-only fast path
// when the formula has that shape), COMPUTE through MIN/MAX, LTL through
// the tableau, INVAR through forward reachability or k-induction, PSL by
// lazy lowering to CTL or LTL. A property that is no longer Unchecked is a
// no-op.
func (db *DB) Verify(ctx context.Context, index int) error {
	p, err := db.Get(index)
	if err != nil {
		return err
	}
	if p.Status != StatusUnchecked {
		return nil
	}

	kind := p.Kind
	if kind == KindPSL {
		kind, err = db.lowerPSL(p)
		if err != nil {
			p.Status = StatusWrong

			return err
		}
	}

	switch kind {
	case KindCTL:
		return db.verifyCTL(p)
	case KindCompute:
		return db.verifyCompute(p)
	case KindLTL:
		return db.verifyLTL(p)
	case KindInvar:
		return db.verifyInvar(ctx, p)
	default:
		p.Status = StatusWrong

		return fmt.Errorf("%w: %v", ErrBadKind, p.Kind)
	}
}

// lowerPSL memoizes a PSL property's re-classification: branching
// operators make it CTL, linear ones LTL, a purely propositional body
// defaults to LTL; a mix is unsupported.
func (db *DB) lowerPSL(p *Property) (Kind, error) {
	if p.lowered != KindNoType {
		return p.lowered, nil
	}
	hasCTL, hasLTL := db.classifyTemporal(p.Expr)
	switch {
	case hasCTL && hasLTL:
		return KindNoType, fmt.Errorf("%w: property %d", ErrPSLUnsupported, p.Index)
	case hasCTL:
		p.lowered = KindCTL
	default:
		p.lowered = KindLTL
	}

	return p.lowered, nil
}

func (db *DB) verifyCTL(p *Property) error {
	env, _, _, err := db.envFor(p)
	if err != nil {
		return err
	}
	ck := ctl.New(env.fsm, db.log)

	if rhos, ok := db.agOnlyConjuncts(p.Expr); ok {
		return db.verifyAGOnly(p, env, ck, rhos)
	}

	satSet, err := db.evalCTL(env, ck, p.Expr)
	if err != nil {
		return err
	}
	defer env.mgr.Deref(satSet)

	initInvar := env.mgr.And(env.fsm.Init, env.fsm.Invar)
	notSat := env.mgr.Not(satSet)
	violation := env.mgr.And(initInvar, notSat)
	env.mgr.Deref(initInvar)
	env.mgr.Deref(notSat)
	defer env.mgr.Deref(violation)

	if violation == env.mgr.False() {
		p.Status = StatusTrue

		return nil
	}

	p.Status = StatusFalse

	return db.attachWitness(p, env, violation)
}

// verifyAGOnly runs the reachability-based fast path: the reachable set is
// computed up front (its layering doubles as the counterexample's
// shortest-path index), so CheckAGOnly never needs its general-CTL
// fallback here.
func (db *DB) verifyAGOnly(p *Property, env *modelEnv, ck *ctl.Checker, rhos []dagexpr.ID) error {
	env.fsm.ReachableStates()

	ids := make([]bdd.ID, 0, len(rhos))
	defer func() {
		for _, id := range ids {
			env.mgr.Deref(id)
		}
	}()
	for _, rho := range rhos {
		b, err := env.enc.ExprToBDD(rho)
		if err != nil {
			return err
		}
		ids = append(ids, b)
	}

	res, err := ck.CheckAGOnly(ids)
	if err != nil {
		return err
	}
	if res.Holds {
		p.Status = StatusTrue

		return nil
	}
	defer env.mgr.Deref(res.Violation)
	p.Status = StatusFalse

	return db.attachWitness(p, env, res.Violation)
}

// attachWitness extracts a shortest-path counterexample from a non-empty
// violation set and records its trace id on the property.
func (db *DB) attachWitness(p *Property, env *modelEnv, violation bdd.ID) error {
	env.fsm.ReachableStates()
	seed, ok := env.fsm.SingleStateCube(violation)
	if !ok {
		return nil
	}
	defer env.mgr.Deref(seed)

	tr, err := trace.SynthesizePath(env.fsm, db.reg, seed)
	if err != nil {
		return err
	}
	p.TraceID = db.traces.Add(tr)

	return nil
}

func (db *DB) verifyCompute(p *Property) error {
	n, ok := db.in.Get(p.Expr)
	if !ok || (n.Tag != dagexpr.TagMin && n.Tag != dagexpr.TagMax) {
		p.Status = StatusWrong

		return fmt.Errorf("%w: property %d", ErrNotCompute, p.Index)
	}

	env, _, _, err := db.envFor(p)
	if err != nil {
		return err
	}
	ck := ctl.New(env.fsm, db.log)

	phi, err := env.enc.ExprToBDD(n.Left)
	if err != nil {
		return err
	}
	defer env.mgr.Deref(phi)
	psi, err := env.enc.ExprToBDD(n.Right)
	if err != nil {
		return err
	}
	defer env.mgr.Deref(psi)

	if n.Tag == dagexpr.TagMin {
		p.Number = ck.MIN(phi, psi)
	} else {
		p.Number = ck.MAX(phi, psi)
	}
	p.Status = StatusNumber

	return nil
}

func (db *DB) verifyLTL(p *Property) error {
	_, sexp, names, err := db.envFor(p)
	if err != nil {
		return err
	}

	out, err := ltlx.New(db.in, db.reg, db.log).Check(sexp, names, p.Expr, db.method)
	if err != nil {
		return err
	}
	if out.Holds {
		p.Status = StatusTrue

		return nil
	}
	p.Status = StatusFalse
	if out.Trace != nil {
		p.TraceID = db.traces.Add(out.Trace)
	}

	return nil
}

func (db *DB) verifyInvar(ctx context.Context, p *Property) error {
	if db.kInduction {
		return db.verifyInvarInduction(ctx, p)
	}

	env, _, _, err := db.envFor(p)
	if err != nil {
		return err
	}

	rho, err := env.enc.ExprToBDD(p.Expr)
	if err != nil {
		return err
	}
	defer env.mgr.Deref(rho)

	reach := env.fsm.ReachableStates()
	notRho := env.mgr.Not(rho)
	withInvar := env.mgr.And(reach.Set, env.fsm.Invar)
	violation := env.mgr.And(withInvar, notRho)
	env.mgr.Deref(notRho)
	env.mgr.Deref(withInvar)
	defer env.mgr.Deref(violation)

	if violation == env.mgr.False() {
		p.Status = StatusTrue

		return nil
	}
	p.Status = StatusFalse

	return db.attachWitness(p, env, violation)
}

func (db *DB) verifyInvarInduction(ctx context.Context, p *Property) error {
	_, sexp, names, err := db.envFor(p)
	if err != nil {
		return err
	}

	stateVars := make([]string, 0, len(names))
	for _, n := range names {
		if db.reg.IsStateVar(n) {
			stateVars = append(stateVars, n)
		}
	}

	beMgr := be.NewManager()
	beEnc := be.NewEncoder(db.in, db.reg, beMgr)
	engine := bmc.NewEngine(db.in, db.reg, beMgr, beEnc, sexp, stateVars, db.log)

	res, err := engine.KInduction(ctx, db.solver, p.Expr, db.maxK)
	if err != nil {
		if errors.Is(err, sat.ErrNoSuchSolver) || errors.Is(err, bmc.ErrKInductionInconclusive) {
			return fmt.Errorf("%w: property %d: %v", ErrSolverFailed, p.Index, err)
		}

		return err
	}
	if res.Holds {
		p.Status = StatusTrue

		return nil
	}
	p.Status = StatusFalse
	if res.Trace != nil {
		p.TraceID = db.traces.Add(res.Trace)
	}

	return nil
}
