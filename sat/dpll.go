package sat

import (
	"context"
	"time"

	"github.com/bits-and-blooms/bitset"
)

// dpllEngine is a DPLL (unit propagation + decision + chronological
// backtracking) search over a fixed clause set, in a branch-and-bound
// bbEngine: a dedicated struct carrying search state instead of closures,
// a trail-based undo in place of tour/visited arrays, and the same sparse
// deadline-check idiom (checked every decision, not every clause visit).
// assigned/value are bits-and-blooms/bitset vectors indexed by variable id,
// instead of a raw math/bits word, so clause sets outlast 64 variables.
type dpllEngine struct {
	numVars      int
	clauses      [][]int
	assigned     *bitset.BitSet
	value        *bitset.BitSet
	trail        []int
	maxConflicts int
	conflicts    int

	useDeadline bool
	deadline    time.Time
	ctx         context.Context
	steps       int

	timedOut     bool
	conflictsOut bool
}

func newDPLLEngine(numVars int, clauses [][]int, maxConflicts int) *dpllEngine {
	return &dpllEngine{
		numVars:      numVars,
		clauses:      clauses,
		assigned:     bitset.New(uint(numVars) + 1),
		value:        bitset.New(uint(numVars) + 1),
		maxConflicts: maxConflicts,
		ctx:          context.Background(),
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}

// evalLit returns 1 (true), 0 (false), or -1 (unassigned) for lit under the
// engine's current partial assignment.
func (e *dpllEngine) evalLit(lit int) int {
	v := uint(abs(lit))
	if !e.assigned.Test(v) {
		return -1
	}
	val := e.value.Test(v)
	if lit < 0 {
		val = !val
	}
	if val {
		return 1
	}

	return 0
}

// clauseStatus classifies a clause: 1 satisfied, 0 conflicting (all literals
// false), -1 unit (exactly one unresolved literal, returned as unitLit), 2
// unresolved (more than one free literal).
func (e *dpllEngine) clauseStatus(cl []int) (status int, unitLit int) {
	unresolved := 0
	for _, lit := range cl {
		switch e.evalLit(lit) {
		case 1:
			return 1, 0
		case -1:
			unresolved++
			unitLit = lit
		}
	}
	if unresolved == 0 {
		return 0, 0
	}
	if unresolved == 1 {
		return -1, unitLit
	}

	return 2, 0
}

func (e *dpllEngine) assign(lit int) {
	v := uint(abs(lit))
	e.assigned.Set(v)
	if lit > 0 {
		e.value.Set(v)
	} else {
		e.value.Clear(v)
	}
	e.trail = append(e.trail, lit)
}

func (e *dpllEngine) undoTo(mark int) {
	for len(e.trail) > mark {
		lit := e.trail[len(e.trail)-1]
		e.trail = e.trail[:len(e.trail)-1]
		e.assigned.Clear(uint(abs(lit)))
	}
}

// deadlineHit reports ctx cancellation or the wall-clock deadline, checked
// once per decision node rather than on every clause scan.
func (e *dpllEngine) deadlineHit() bool {
	e.steps++
	if e.useDeadline && !time.Now().Before(e.deadline) {
		return true
	}
	select {
	case <-e.ctx.Done():
		return true
	default:
		return false
	}
}

// propagate runs unit propagation to a fixpoint, returning false on
// conflict. On conflict, the trail is left exactly where the caller should
// undoTo to retry the opposite branch.
func (e *dpllEngine) propagate() bool {
	changed := true
	for changed {
		changed = false
		for _, cl := range e.clauses {
			status, unit := e.clauseStatus(cl)
			switch status {
			case 0:
				return false
			case -1:
				e.assign(unit)
				changed = true
			}
		}
	}

	return true
}

// allSatisfied reports whether every clause currently evaluates to true.
func (e *dpllEngine) allSatisfied() bool {
	for _, cl := range e.clauses {
		status, _ := e.clauseStatus(cl)
		if status != 1 {
			return false
		}
	}

	return true
}

func (e *dpllEngine) pickUnassignedVar() int {
	for v := 1; v <= e.numVars; v++ {
		if !e.assigned.Test(uint(v)) {
			return v
		}
	}

	return 0
}

// search is the recursive DPLL core: propagate, then branch on the first
// unassigned variable true-first then false, backtracking the trail on
// failure.
func (e *dpllEngine) search() (bool, bool) {
	mark := len(e.trail)
	if !e.propagate() {
		e.undoTo(mark)

		return false, false
	}
	if e.allSatisfied() {
		return true, false
	}
	if e.deadlineHit() {
		e.timedOut = true

		return false, true
	}
	if e.maxConflicts > 0 && e.conflicts > e.maxConflicts {
		e.conflictsOut = true

		return false, true
	}

	v := e.pickUnassignedVar()
	if v == 0 {
		// Every variable is assigned but some clause is unresolved: cannot
		// happen for well-formed CNF, but treat as satisfied defensively.
		return true, false
	}

	for _, lit := range [2]int{v, -v} {
		e.assign(lit)
		branchOK, branchTimedOut := e.search()
		if branchOK || branchTimedOut {
			return branchOK, branchTimedOut
		}
		e.conflicts++
		e.undoTo(mark)
	}

	return false, false
}

func (e *dpllEngine) model() Assignment {
	a := make(Assignment, e.numVars)
	for v := 1; v <= e.numVars; v++ {
		if e.assigned.Test(uint(v)) {
			a[v] = e.value.Test(uint(v))
		}
	}

	return a
}

func (e *dpllEngine) solve() (Status, Assignment) {
	ok, gaveUp := e.search()
	if gaveUp {
		if e.conflictsOut {
			return StatusMemout, nil
		}

		return StatusTimeout, nil
	}
	if ok {
		return StatusSAT, e.model()
	}

	return StatusUNSAT, nil
}
