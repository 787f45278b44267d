package fsm

import "github.com/katalvlaran/nuxlite/bdd"

// ReachableStates computes (and caches) the forward-reachable state set and
// its distance layering, ∪ᵢ Sᵢ, Sᵢ₊₁ = image(Sᵢ) ∧ V,
// starting from I ∧ V, until fixpoint, recording Sᵢ \ ∪_{j<i}Sⱼ at each
// step — mandatory for trace.SynthesizePath's shortest-path extraction.
func (fsm *BDDFSM) ReachableStates() *Reachable {
	if fsm.reachable != nil {
		return fsm.reachable
	}

	frontier := fsm.Mgr.And(fsm.Init, fsm.Invar)
	union := fsm.Mgr.Ref(frontier)
	layers := []bdd.ID{fsm.Mgr.Ref(frontier)}

	for {
		img := fsm.ForwardImage(frontier)
		fsm.Mgr.Deref(frontier)

		withInvar := fsm.Mgr.And(img, fsm.Invar)
		fsm.Mgr.Deref(img)

		notUnion := fsm.Mgr.Not(union)
		newStates := fsm.Mgr.And(withInvar, notUnion)
		fsm.Mgr.Deref(notUnion)
		fsm.Mgr.Deref(withInvar)

		if newStates == fsm.Mgr.False() {
			fsm.Mgr.Deref(newStates)

			break
		}

		layers = append(layers, fsm.Mgr.Ref(newStates))
		newUnion := fsm.Mgr.Or(union, newStates)
		fsm.Mgr.Deref(union)
		union = newUnion
		frontier = newStates
	}

	fsm.reachable = &Reachable{Set: union, Layering: Layering{Layers: layers}}

	return fsm.reachable
}

// DistanceOf returns the smallest layer index containing any state of s
// (s must be a single-state cube, or any non-empty subset of one layer), or
// (-1, false) if s shares no state with any recorded layer.
func (r *Reachable) DistanceOf(mgr *bdd.Manager, s bdd.ID) (int, bool) {
	for i, layer := range r.Layering.Layers {
		inter := mgr.And(layer, s)
		hit := inter != mgr.False()
		mgr.Deref(inter)
		if hit {
			return i, true
		}
	}

	return -1, false
}

// HasReachable reports whether ReachableStates has already been called (and
// cached its result) on fsm, without triggering the computation itself —
// ctl.CheckAGOnly uses this to decide whether the fast path's "reachable set
// precomputed" precondition holds.
func (fsm *BDDFSM) HasReachable() bool {
	return fsm.reachable != nil
}

// InvalidateReachable drops the cached reachable-state set and layering,
// forcing the next ReachableStates call to recompute — used after any
// mutation to Init/Invar/Trans the caller doesn't route through Build.
func (fsm *BDDFSM) InvalidateReachable() {
	if fsm.reachable == nil {
		return
	}
	fsm.Mgr.Deref(fsm.reachable.Set)
	for _, l := range fsm.reachable.Layering.Layers {
		fsm.Mgr.Deref(l)
	}
	fsm.reachable = nil
}

// SetFairStates installs a precomputed fair-state BDD into the FSM's cache,
// the hook package ctl uses to realize the "fair-state set
// (computed lazily)" without fsm importing ctl (EG true's fixpoint is
// component I's algorithm, not component F's).
func (fsm *BDDFSM) SetFairStates(fair bdd.ID) {
	if fsm.fairSet {
		fsm.Mgr.Deref(fsm.fair)
	}
	fsm.fair = fair
	fsm.fairSet = true
}

// FairStates returns the cached fair-state set and whether one has been
// computed yet (via SetFairStates).
func (fsm *BDDFSM) FairStates() (bdd.ID, bool) {
	return fsm.fair, fsm.fairSet
}
