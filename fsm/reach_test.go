package fsm

import (
	"testing"

	"github.com/katalvlaran/nuxlite/bdd"
	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolRange() registry.Range { return registry.Range{Values: []string{"FALSE", "TRUE"}} }

// toggleFSM builds the two-state toggle:
// x : bool; init: x=0; trans: next(x) = !x; invar: true.
func toggleFSM(t *testing.T) (*dagexpr.Interner, *bdd.Encoder, *bdd.Manager, *BDDFSM) {
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

	sx := NewSexpFSM(initExpr, in.True(), transExpr, in.True(), nil, nil)
	bddFSM, err := Build(in, sx, enc, mgr, idx, Monolithic)
	require.NoError(t, err)

	return in, enc, mgr, bddFSM
}

func TestReachableStatesConverges(t *testing.T) {
	_, _, mgr, bddFSM := toggleFSM(t)

	r := bddFSM.ReachableStates()
	require.Len(t, r.Layering.Layers, 2, "toggle reaches both states in exactly one image step")

	// Closed under forward_image ∧ V.
	img := bddFSM.ForwardImage(r.Set)
	withInvar := mgr.And(img, bddFSM.Invar)
	assert.Equal(t, r.Set, withInvar, "reachable set must be closed under forward_image ∧ V")
}

func TestImageIdentity(t *testing.T) {
	_, _, mgr, bddFSM := toggleFSM(t)

	r := bddFSM.ReachableStates()
	img := bddFSM.ForwardImage(r.Set)
	back := bddFSM.BackwardImage(img)

	// backward_image(forward_image(S)) ⊇ S ∧ V.
	sAndV := mgr.And(r.Set, bddFSM.Invar)
	notBack := mgr.Not(back)
	violation := mgr.And(sAndV, notBack)
	assert.Equal(t, mgr.False(), violation)
}

func TestCheckMachineNoDeadlock(t *testing.T) {
	_, _, _, bddFSM := toggleFSM(t)

	rep, err := bddFSM.CheckMachine()
	require.NoError(t, err)
	assert.True(t, rep.InitNonEmpty)
	assert.True(t, rep.InvarNonEmpty)
	assert.Nil(t, rep.Deadlock)
}
