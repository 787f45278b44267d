package ctl

import (
	"testing"

	"github.com/katalvlaran/nuxlite/bdd"
	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/fsm"
	"github.com/katalvlaran/nuxlite/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolRange() registry.Range { return registry.Range{Values: []string{"FALSE", "TRUE"}} }

// toggleFSM builds the two-state toggle: x : bool; init: x=0;
// trans: next(x) = !x; invar: true — and wraps it in a Checker.
func toggleFSM(t *testing.T) (*bdd.Manager, *fsm.BDDFSM, *Checker) {
	t.Helper()

	in := dagexpr.NewInterner()
	reg := registry.New()
	require.NoError(t, reg.DeclareStateVar("x", boolRange()))
	require.NoError(t, reg.EncodeVars())

	idx, err := bdd.IndexNames(reg, []string{"x"})
	require.NoError(t, err)
	mgr := bdd.NewManager(idx.NumVars())
	enc := bdd.NewEncoder(in, reg, idx, mgr)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	initExpr := in.Intern(dagexpr.TagNot, x, dagexpr.Empty, 0)
	nextX := in.Intern(dagexpr.TagNext, x, dagexpr.Empty, 0)
	notX := in.Intern(dagexpr.TagNot, x, dagexpr.Empty, 0)
	transExpr := in.Intern(dagexpr.TagIff, nextX, notX, 0)

	sx := fsm.NewSexpFSM(initExpr, in.True(), transExpr, in.True(), nil, nil)
	bddFSM, err := fsm.Build(in, sx, enc, mgr, idx, fsm.Monolithic)
	require.NoError(t, err)

	return mgr, bddFSM, New(bddFSM, nil)
}

func TestEXReachesOtherState(t *testing.T) {
	mgr, bddFSM, c := toggleFSM(t)

	// EX(true) over the invariant must equal every invar-respecting state:
	// the toggle always has exactly one successor.
	ex := c.EX(mgr.True())
	assert.Equal(t, bddFSM.Invar, ex)

	mgr.Deref(ex)
}

func TestEFReachesAllStates(t *testing.T) {
	mgr, bddFSM, c := toggleFSM(t)

	ef := c.EF(bddFSM.Invar)
	r := bddFSM.ReachableStates()
	assert.Equal(t, r.Set, ef, "EF true must equal the full reachable set")

	mgr.Deref(ef)
}

func TestAUDualIdentity(t *testing.T) {
	mgr, bddFSM, c := toggleFSM(t)

	phi := bddFSM.Invar
	psi := bddFSM.Invar

	au := c.AU(phi, psi)
	// A[true U true] must hold everywhere invar holds, since every state has
	// a successor (no deadlock) and psi is trivially satisfied at depth 0.
	diff := mgr.And(bddFSM.Invar, mgr.Not(au))
	assert.Equal(t, mgr.False(), diff)
}

func TestFairStatesNoConstraintsIsReachable(t *testing.T) {
	mgr, bddFSM, c := toggleFSM(t)

	fair := c.FairStates()
	// With no justice/compassion constraints, every invar-respecting state
	// with an outgoing transition is fair.
	assert.Equal(t, bddFSM.Invar, fair)

	mgr.Deref(fair)
}
