package ltlx

import (
	"github.com/katalvlaran/nuxlite/bdd"
	"github.com/katalvlaran/nuxlite/fsm"
	"github.com/katalvlaran/nuxlite/trace"
)

// explain builds the lasso witness for a justice-only product FSM: a path
// seeded at an initial fair state whose cycle visits every justice
// constraint.
func (c *Checker) explain(f *fsm.BDDFSM, seed, fair bdd.ID) (*trace.Trace, error) {
	return c.lasso(f, seed, fair, f.Justice)
}

// witness is the compassion-aware variant (`witness(fsm, seed)`): each
// compassion pair (p, q) contributes the derived obligation ¬p ∨ q, the
// same justice-fragment reduction the fair-state fixpoint applies, so the
// produced cycle discharges every Streett pair it was deemed fair under.
func (c *Checker) witness(f *fsm.BDDFSM, seed, fair bdd.ID) (*trace.Trace, error) {
	mgr := f.Mgr
	cons := append([]bdd.ID(nil), f.Justice...)
	frags := make([]bdd.ID, 0, len(f.Compassion))
	for _, pair := range f.Compassion {
		notP := mgr.Not(pair[0])
		frag := mgr.Or(notP, pair[1])
		mgr.Deref(notP)
		cons = append(cons, frag)
		frags = append(frags, frag)
	}

	tr, err := c.lasso(f, seed, fair, cons)
	for _, fr := range frags {
		mgr.Deref(fr)
	}

	return tr, err
}

// lasso builds a fair lasso from seed: serve every fairness constraint in
// order (extending the path to a constraint-satisfying fair state), then
// close the cycle back to the state where the current service round began.
// When the round's start state turns out not to lie on a cycle, the walk
// advances one fair step and retries — each retry moves deeper along a fair
// path, and the fair set is finite, so a closable round start is reached
// within |fair| attempts.
func (c *Checker) lasso(f *fsm.BDDFSM, seed, fair bdd.ID, constraints []bdd.ID) (*trace.Trace, error) {
	mgr := f.Mgr

	states := []bdd.ID{mgr.Ref(seed)}
	release := func() {
		for _, s := range states {
			mgr.Deref(s)
		}
	}

	attempts := int(mgr.CountMinterms(fair, len(f.Idx.StateVarIndices()))) + 1
	for attempt := 0; attempt < attempts; attempt++ {
		bodyStart := len(states) - 1
		cur := states[bodyStart]

		for _, fi := range constraints {
			target := mgr.And(fi, fair)
			onTarget := mgr.And(cur, target)
			hit := onTarget != mgr.False()
			mgr.Deref(onTarget)
			if hit {
				mgr.Deref(target)
				continue
			}

			seg, err := c.segment(f, fair, cur, target)
			mgr.Deref(target)
			if err != nil {
				release()

				return nil, err
			}
			states = append(states, seg...)
			cur = states[len(states)-1]
		}

		// Close the cycle back to the round's start; a zero-length cycle is
		// forced through at least one transition.
		start := states[bodyStart]
		if cur == start && len(states)-1 > bodyStart {
			loop := bodyStart

			tr, err := trace.FromStates(f, c.Reg, states, &loop)
			release()

			return tr, err
		}

		closing, err := c.closeCycle(f, fair, cur, start)
		if err == nil {
			states = append(states, closing...)
			loop := bodyStart

			tr, err := trace.FromStates(f, c.Reg, states, &loop)
			release()

			return tr, err
		}

		// Round start is not on a cycle: step forward and try again.
		img := f.ForwardImage(cur)
		stepSet := mgr.And(img, fair)
		mgr.Deref(img)
		next, ok := f.SingleStateCube(stepSet)
		mgr.Deref(stepSet)
		if !ok {
			release()

			return nil, ErrNoFairCycle
		}
		states = append(states, next)
	}
	release()

	return nil, ErrNoFairCycle
}

// closeCycle finds a path of at least one step from cur back to the single
// state start, within fair.
func (c *Checker) closeCycle(f *fsm.BDDFSM, fair, cur, start bdd.ID) ([]bdd.ID, error) {
	mgr := f.Mgr

	img := f.ForwardImage(cur)
	first := mgr.And(img, fair)
	mgr.Deref(img)
	defer mgr.Deref(first)

	direct := mgr.And(first, start)
	hit := direct != mgr.False()
	mgr.Deref(direct)
	if hit {
		return []bdd.ID{mgr.Ref(start)}, nil
	}

	// Pick one first-step candidate, BFS from it down to start, then
	// prepend that first step.
	s1, ok := f.SingleStateCube(first)
	if !ok {
		return nil, ErrNoFairCycle
	}

	seg, err := c.segment(f, fair, s1, start)
	if err != nil {
		mgr.Deref(s1)

		return nil, err
	}

	return append([]bdd.ID{s1}, seg...), nil
}

// segment runs a forward BFS from the single state from, constrained to
// within, until a frontier intersects target, then backtracks picking one
// state per level — a BFS level graph over the image relation. The
// returned slice excludes from and ends at
// a target state; every element is a fresh single-state cube the caller
// releases.
func (c *Checker) segment(f *fsm.BDDFSM, within, from, target bdd.ID) ([]bdd.ID, error) {
	mgr := f.Mgr

	frontiers := []bdd.ID{mgr.Ref(from)}
	seen := mgr.Ref(from)
	releaseAll := func() {
		for _, fr := range frontiers {
			mgr.Deref(fr)
		}
		mgr.Deref(seen)
	}

	goalLevel := -1
	for goalLevel < 0 {
		lastFrontier := frontiers[len(frontiers)-1]
		img := f.ForwardImage(lastFrontier)
		constrained := mgr.And(img, within)
		mgr.Deref(img)

		notSeen := mgr.Not(seen)
		next := mgr.And(constrained, notSeen)
		mgr.Deref(notSeen)
		mgr.Deref(constrained)

		if next == mgr.False() {
			mgr.Deref(next)
			releaseAll()

			return nil, ErrNoFairCycle
		}

		newSeen := mgr.Or(seen, next)
		mgr.Deref(seen)
		seen = newSeen
		frontiers = append(frontiers, next)

		onTarget := mgr.And(next, target)
		if onTarget != mgr.False() {
			goalLevel = len(frontiers) - 1
			goal, _ := f.SingleStateCube(onTarget)
			mgr.Deref(onTarget)

			// Backtrack from the goal, one state per frontier level.
			seg := make([]bdd.ID, goalLevel)
			seg[goalLevel-1] = goal
			for i := goalLevel - 1; i >= 1; i-- {
				pred := f.BackwardImage(seg[i])
				cand := mgr.And(pred, frontiers[i])
				mgr.Deref(pred)
				prev, ok := f.SingleStateCube(cand)
				mgr.Deref(cand)
				if !ok {
					for _, s := range seg {
						if s != 0 {
							mgr.Deref(s)
						}
					}
					releaseAll()

					return nil, ErrNoFairCycle
				}
				seg[i-1] = prev
			}
			releaseAll()

			return seg, nil
		}
		mgr.Deref(onTarget)
	}

	releaseAll()

	return nil, ErrNoFairCycle
}
