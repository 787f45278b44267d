package fsm

import "github.com/katalvlaran/nuxlite/bdd"

// Report is check_machine's diagnostic result: whether
// init∧invar is non-empty, whether any justice constraint is vacuously
// unsatisfiable, and — when a deadlock is found — a witness state.
type Report struct {
	InitNonEmpty bool
	InvarNonEmpty bool
	VacuousJustice []int // indices into SexpFSM.Justice/BDDFSM.Justice that never hold
	Deadlock       map[string]string // witness assignment, nil if no deadlock found
}

// CheckMachine runs the machine diagnostic: whether invar is non-empty,
// whether I∧V is non-empty, which justice constraints are constantly
// false, and whether some reachable state has no successor (deadlock). It
// does not report whether invar restricts the transition relation. None of
// these findings are fatal; they are returned in the Report.
func (fsm *BDDFSM) CheckMachine() (Report, error) {
	var rep Report

	rep.InvarNonEmpty = fsm.Invar != fsm.Mgr.False()

	initInvar := fsm.Mgr.And(fsm.Init, fsm.Invar)
	rep.InitNonEmpty = initInvar != fsm.Mgr.False()
	fsm.Mgr.Deref(initInvar)

	for i, j := range fsm.Justice {
		if j == fsm.Mgr.False() {
			rep.VacuousJustice = append(rep.VacuousJustice, i)
		}
	}

	witness, deadlocked, err := fsm.findDeadlock()
	if err != nil {
		return rep, err
	}
	if deadlocked {
		rep.Deadlock = witness
	}

	return rep, nil
}

// findDeadlock looks for a reachable state with no successor under invar: a
// state s with reachable(s) but backward-unreachable-from-itself via
// forward image, i.e. ForwardImage({s}) ∧ Invar is empty.
func (fsm *BDDFSM) findDeadlock() (map[string]string, bool, error) {
	r := fsm.ReachableStates()
	remaining := fsm.Mgr.Ref(r.Set)
	defer fsm.Mgr.Deref(remaining)

	for remaining != fsm.Mgr.False() {
		assign, ok := fsm.Mgr.PickOneMinterm(remaining)
		if !ok {
			break
		}
		s := fsm.cubeFromAssignment(assign, fsm.Idx.StateVarIndices())

		succ := fsm.ForwardImage(s)
		withInvar := fsm.Mgr.And(succ, fsm.Invar)
		fsm.Mgr.Deref(succ)
		noSucc := withInvar == fsm.Mgr.False()
		fsm.Mgr.Deref(withInvar)

		if noSucc {
			w, err := fsm.Enc.PickOneState(s)
			fsm.Mgr.Deref(s)

			return w, true, err
		}

		notS := fsm.Mgr.Not(s)
		next := fsm.Mgr.And(remaining, notS)
		fsm.Mgr.Deref(notS)
		fsm.Mgr.Deref(s)
		fsm.Mgr.Deref(remaining)
		remaining = next
	}

	return nil, false, nil
}

// SingleStateCube picks one state-cube from a possibly multi-state BDD set
// s, pinning every current-state variable to a concrete value (via
// PickOneMinterm's deterministic high-branch-first choice). Package trace
// uses it to collapse a reachability layer intersection down to the single
// witness state the layered-BFS counterexample reconstruction
// picks at each step. Returns (invalid, false) if s is unsatisfiable.
func (fsm *BDDFSM) SingleStateCube(s bdd.ID) (bdd.ID, bool) {
	assign, ok := fsm.Mgr.PickOneMinterm(s)
	if !ok {
		return 0, false
	}

	return fsm.cubeFromAssignment(assign, fsm.Idx.StateVarIndices()), true
}

// cubeFromAssignment rebuilds a total-assignment BDD cube over vars from a
// partial PickOneMinterm result (unassigned variables are free in the
// minterm — Bryant reduction skips them — so we must pin each to some
// value, here arbitrarily false, to get a genuine single-state cube).
func (fsm *BDDFSM) cubeFromAssignment(assign map[int]bool, vars []int) bdd.ID {
	acc := fsm.Mgr.Ref(fsm.Mgr.True())
	for _, v := range vars {
		val := assign[v]
		var lit bdd.ID
		if val {
			lit, _ = fsm.Mgr.Var(v)
		} else {
			lit, _ = fsm.Mgr.NVar(v)
		}
		next := fsm.Mgr.And(acc, lit)
		fsm.Mgr.Deref(acc)
		fsm.Mgr.Deref(lit)
		acc = next
	}

	return acc
}
