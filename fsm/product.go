package fsm

// ApplySynchronousProduct composes other onto fsm in place: inits and
// invars are conjoined, transition factors are concatenated (the combined
// relation is their conjunction under any partitioning), and the justice
// and compassion lists are unioned. Both FSMs must have
// been built against the same Manager/Indexer universe.
//
// fsm takes ownership of every handle other carries; other must not be
// used (or Destroyed) afterward. The receiver's reachable- and fair-state
// caches are dropped, since neither survives a change to the relation.
func (fsm *BDDFSM) ApplySynchronousProduct(other *BDDFSM) {
	init := fsm.Mgr.And(fsm.Init, other.Init)
	fsm.Mgr.Deref(fsm.Init)
	fsm.Mgr.Deref(other.Init)
	fsm.Init = init

	invar := fsm.Mgr.And(fsm.Invar, other.Invar)
	fsm.Mgr.Deref(fsm.Invar)
	fsm.Mgr.Deref(other.Invar)
	fsm.Invar = invar

	fsm.Trans = append(fsm.Trans, other.Trans...)
	fsm.Justice = append(fsm.Justice, other.Justice...)
	fsm.Compassion = append(fsm.Compassion, other.Compassion...)

	fsm.InvalidateReachable()
	if fsm.fairSet {
		fsm.Mgr.Deref(fsm.fair)
		fsm.fairSet = false
	}
}
