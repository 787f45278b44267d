package sat

import (
	"context"
	"time"

	"github.com/katalvlaran/nuxlite/be"
)

// knownBackends lists the solver names this facade accepts at Create; any
// other name is ErrNoSuchSolver. A facade backed by linked solver libraries
// would dispatch "minisat"/"zchaff"/... to distinct engines; this module
// ships exactly one hand-written DPLL engine, so every known name resolves
// to it.
var knownBackends = map[string]bool{"dpll": true, "default": true}

// Facade is the SAT Solver Facade: a shared interface over
// named, frozen-aware clause groups, polarity assertion, solving, model
// extraction, and assumption-based solving. Groups are delegated to
// be.Groups; the search itself is the dpllEngine in dpll.go.
type Facade struct {
	name         string
	groups       *be.Groups
	clauses      map[string][][]int
	numVars      int
	maxConflicts int
	destroyed    bool
	lastStatus   Status
	lastModel    Assignment
}

// Create returns a Facade for the named backend, or ErrNoSuchSolver.
func Create(name string, opts ...Option) (*Facade, error) {
	if !knownBackends[name] {
		return nil, ErrNoSuchSolver
	}
	f := &Facade{
		name:    name,
		groups:  be.NewGroups(),
		clauses: make(map[string][][]int),
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// Groups exposes the facade's group bookkeeping so callers can Merge/Freeze
// groups across several Add calls (e.g. BMC unrolling frames sharing one
// frozen "trans" group).
func (f *Facade) Groups() *be.Groups {
	return f.groups
}

// NextVar returns the first DIMACS variable id not yet used by any clause
// added to this facade, for callers threading be.ConvertToCNFFrom across
// several calls into one shared variable space.
func (f *Facade) NextVar() int {
	return f.numVars
}

func (f *Facade) trackVars(cnf be.CNF) {
	top := cnf.NumVars
	for _, clause := range cnf.Clauses {
		for _, lit := range clause {
			v := lit
			if v < 0 {
				v = -v
			}
			if v > top {
				top = v
			}
		}
	}
	if top > f.numVars {
		f.numVars = top
	}
}

// Add adds cnf's clauses to the named group (created if new).
func (f *Facade) Add(cnf be.CNF, group string) error {
	if f.destroyed {
		return ErrAlreadyDestroyed
	}
	f.groups.Create(group)
	f.clauses[group] = append(f.clauses[group], cnf.Clauses...)
	f.trackVars(cnf)

	return nil
}

// SetPolarity asserts cnf's output literal true (polarity > 0) or false
// (polarity <= 0) as a unit clause in the named group, the
// set_polarity(solver, cnf, polarity, group) contract
func (f *Facade) SetPolarity(cnf be.CNF, polarity int, group string) error {
	if f.destroyed {
		return ErrAlreadyDestroyed
	}
	f.groups.Create(group)
	lit := cnf.Output
	if polarity <= 0 {
		lit = -lit
	}
	f.clauses[group] = append(f.clauses[group], []int{lit})
	f.trackVars(cnf)

	return nil
}

// RemoveGroup drops a non-frozen, non-permanent group and its clauses.
func (f *Facade) RemoveGroup(name string) error {
	if err := f.groups.Remove(name); err != nil {
		return err
	}
	delete(f.clauses, name)

	return nil
}

// activeClauses concatenates every group's clauses that still exists in the
// DSU (Remove deletes both the group and its clauses, so a merged-but-not-
// removed group's clauses are still live).
func (f *Facade) activeClauses() [][]int {
	var all [][]int
	for name, cls := range f.clauses {
		if _, ok := f.groups.Find(name); !ok {
			continue
		}
		all = append(all, cls...)
	}

	return all
}

// SolveAllGroups runs the DPLL search over every active group's clauses,
// honoring ctx cancellation/deadline as a Timeout result.
func (f *Facade) SolveAllGroups(ctx context.Context) (Status, error) {
	if f.destroyed {
		return StatusInternalError, ErrAlreadyDestroyed
	}

	return f.solve(ctx, f.activeClauses())
}

// SolveUnderAssumptions runs the DPLL search over every active group's
// clauses plus one unit clause per assumption literal, without persisting
// the assumptions — the solve_under_assumptions(solver, lits) contract used
// by k-induction's Unique(...) and loopback checks.
func (f *Facade) SolveUnderAssumptions(ctx context.Context, lits []int) (Status, error) {
	if f.destroyed {
		return StatusInternalError, ErrAlreadyDestroyed
	}
	clauses := f.activeClauses()
	for _, lit := range lits {
		clauses = append(clauses, []int{lit})
	}

	return f.solve(ctx, clauses)
}

func (f *Facade) solve(ctx context.Context, clauses [][]int) (Status, error) {
	e := newDPLLEngine(f.numVars, clauses, f.maxConflicts)
	if dl, ok := ctx.Deadline(); ok {
		e.useDeadline = true
		e.deadline = dl
	}
	e.ctx = ctx

	status, model := e.solve()
	f.lastStatus = status
	f.lastModel = model

	return status, nil
}

// GetModel returns the satisfying assignment from the most recent SAT
// result, or ErrNoModel if the last solve did not return SAT.
func (f *Facade) GetModel() (Assignment, error) {
	if f.lastStatus != StatusSAT {
		return nil, ErrNoModel
	}

	return f.lastModel, nil
}

// Destroy releases the facade's state; further calls return
// ErrAlreadyDestroyed.
func (f *Facade) Destroy() {
	f.destroyed = true
	f.clauses = nil
	f.lastModel = nil
}

// deadlineFromTimeout is a convenience for callers building a ctx with a
// relative timeout instead of an absolute deadline.
func deadlineFromTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
