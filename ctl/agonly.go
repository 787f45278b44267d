package ctl

import "github.com/katalvlaran/nuxlite/bdd"

// AGOnlyResult is the outcome of CheckAGOnly: Holds plus, when it does not,
// the set of violating states (on the fast path every reachable,
// invar-respecting state outside the conjunction; on the fallback every
// such initial state) for trace.SynthesizePath to extend into a full
// counterexample via backward shortest-path extraction.
type AGOnlyResult struct {
	Holds     bool
	Violation bdd.ID // valid only when !Holds
	FellBack  bool
}

// CheckAGOnly evaluates a conjunction of AG(propositional) properties
// (rhoConjuncts, each already lowered to a BDD over current-state variables)
// using the fast path of evaluate reachable ∧ V ∧ ¬ρ; if
// empty, the property holds; otherwise build a counterexample by backward
// shortest-path extraction.
//
// If the reachable-state set has not already been computed on the FSM,
// CheckAGOnly logs a warning and falls back to evaluating AG(⋀ρᵢ) via the
// general fixpoint evaluator instead of paying for reachability inside what
// is meant to be the cheap path.
func (c *Checker) CheckAGOnly(rhoConjuncts []bdd.ID) (AGOnlyResult, error) {
	if len(rhoConjuncts) == 0 {
		return AGOnlyResult{}, ErrNotAGConjunction
	}

	if !c.FSM.HasReachable() {
		c.Log.Warn("ctl: AG-only fast path requested without a precomputed reachable-state set; falling back to general CTL")

		return c.checkAGGeneral(rhoConjuncts), nil
	}

	rho := c.Mgr.Ref(c.Mgr.True())
	for _, r := range rhoConjuncts {
		next := c.Mgr.And(rho, r)
		c.Mgr.Deref(rho)
		rho = next
	}
	defer c.Mgr.Deref(rho)

	reach := c.FSM.ReachableStates()
	notRho := c.Mgr.Not(rho)
	withInvar := c.Mgr.And(reach.Set, c.FSM.Invar)
	violation := c.Mgr.And(withInvar, notRho)
	c.Mgr.Deref(notRho)
	c.Mgr.Deref(withInvar)

	if violation == c.Mgr.False() {
		c.Mgr.Deref(violation)

		return AGOnlyResult{Holds: true}, nil
	}

	return AGOnlyResult{Holds: false, Violation: violation}, nil
}

// checkAGGeneral is the fallback path: it runs AG over the conjoined
// propositional formula and reports whether every invar-respecting initial
// state satisfies it.
func (c *Checker) checkAGGeneral(rhoConjuncts []bdd.ID) AGOnlyResult {
	rho := c.Mgr.Ref(c.Mgr.True())
	for _, r := range rhoConjuncts {
		next := c.Mgr.And(rho, r)
		c.Mgr.Deref(rho)
		rho = next
	}

	ag := c.AG(rho)
	c.Mgr.Deref(rho)
	defer c.Mgr.Deref(ag)

	initAndInvar := c.Mgr.And(c.FSM.Init, c.FSM.Invar)
	notAG := c.Mgr.Not(ag)
	violation := c.Mgr.And(initAndInvar, notAG)
	c.Mgr.Deref(initAndInvar)
	c.Mgr.Deref(notAG)

	holds := violation == c.Mgr.False()
	if holds {
		c.Mgr.Deref(violation)

		return AGOnlyResult{Holds: true, FellBack: true}
	}

	return AGOnlyResult{Holds: false, Violation: violation, FellBack: true}
}
