package fsm

import "github.com/katalvlaran/nuxlite/bdd"

// ForwardImage computes ∃s,i. T(s,i,s') ∧ S(s), then renames the result out
// of the next-state frame into the current-state frame. S
// must be expressed over current-state variables only.
func (fsm *BDDFSM) ForwardImage(s bdd.ID) bdd.ID {
	trans := fsm.TransRelation()
	conj := fsm.Mgr.And(trans, s)
	fsm.Mgr.Deref(trans)

	quantified := fsm.Mgr.Exists(conj, fsm.quantOutVars())
	fsm.Mgr.Deref(conj)

	renamed := fsm.Mgr.Rename(quantified, fsm.Idx.NextToCurrentMapping())
	fsm.Mgr.Deref(quantified)

	return renamed
}

// BackwardImage computes ∃s',i. T(s,i,s') ∧ S(s'), the dual of ForwardImage.
// S must be expressed over current-state variables; it is renamed into the
// next-state frame internally before conjoining with the relation.
func (fsm *BDDFSM) BackwardImage(s bdd.ID) bdd.ID {
	sNext := fsm.Mgr.Rename(s, fsm.Idx.CurrentToNextMapping())
	trans := fsm.TransRelation()
	conj := fsm.Mgr.And(trans, sNext)
	fsm.Mgr.Deref(trans)
	fsm.Mgr.Deref(sNext)

	result := fsm.Mgr.Exists(conj, fsm.quantOutVarsNext())
	fsm.Mgr.Deref(conj)

	return result
}

// quantOutVars returns current-state plus input variable indices — the set
// ForwardImage existentially quantifies away, leaving only next-state
// variables free.
func (fsm *BDDFSM) quantOutVars() []int {
	return append(append([]int{}, fsm.Idx.StateVarIndices()...), fsm.Idx.InputVarIndices()...)
}

// quantOutVarsNext returns next-state plus input variable indices —
// BackwardImage's existential set, leaving only current-state variables
// free.
func (fsm *BDDFSM) quantOutVarsNext() []int {
	return append(append([]int{}, fsm.Idx.NextVarIndices()...), fsm.Idx.InputVarIndices()...)
}

// StatesToStatesGetInputs returns the projection onto input variables of
// T(s,i,s') ∧ from(s) ∧ to(s'): the set of inputs that could
// have driven a transition from a from-state to a to-state, used by
// trace.SynthesizePath to pick the input cube between two consecutive states of
// a counterexample.
func (fsm *BDDFSM) StatesToStatesGetInputs(from, to bdd.ID) bdd.ID {
	toNext := fsm.Mgr.Rename(to, fsm.Idx.CurrentToNextMapping())
	trans := fsm.TransRelation()

	conj := fsm.Mgr.And(trans, from)
	fsm.Mgr.Deref(trans)
	conj2 := fsm.Mgr.And(conj, toNext)
	fsm.Mgr.Deref(conj)
	fsm.Mgr.Deref(toNext)

	quantVars := append(append([]int{}, fsm.Idx.StateVarIndices()...), fsm.Idx.NextVarIndices()...)
	result := fsm.Mgr.Exists(conj2, quantVars)
	fsm.Mgr.Deref(conj2)

	return result
}
