package ctl

import (
	"testing"

	"github.com/katalvlaran/nuxlite/bdd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAGOnlyFastPathMatchesGeneral(t *testing.T) {
	_, bddFSM, c := toggleFSM(t)

	// rho = invar (true): AG rho holds on both paths.
	bddFSM.ReachableStates()
	fast, err := c.CheckAGOnly([]bdd.ID{bddFSM.Invar})
	require.NoError(t, err)
	assert.True(t, fast.Holds)
	assert.False(t, fast.FellBack)

	general := c.checkAGGeneral([]bdd.ID{bddFSM.Invar})
	assert.Equal(t, fast.Holds, general.Holds, "fast path and general CTL agree")
}

func TestCheckAGOnlyFallsBackWithoutReachable(t *testing.T) {
	_, bddFSM, c := toggleFSM(t)

	require.False(t, bddFSM.HasReachable())
	res, err := c.CheckAGOnly([]bdd.ID{bddFSM.Invar})
	require.NoError(t, err)
	assert.True(t, res.FellBack, "no precomputed reachable set forces the general-CTL fallback")
	assert.True(t, res.Holds)
}

func TestCheckAGOnlyViolationIsReachableState(t *testing.T) {
	mgr, bddFSM, c := toggleFSM(t)

	// rho = "x stays false": violated one step from the initial state.
	x, err := mgr.Var(0)
	require.NoError(t, err)
	notX := mgr.Not(x)
	mgr.Deref(x)
	defer mgr.Deref(notX)

	bddFSM.ReachableStates()
	res, err := c.CheckAGOnly([]bdd.ID{notX})
	require.NoError(t, err)
	require.False(t, res.Holds)
	defer mgr.Deref(res.Violation)

	d, ok := bddFSM.ReachableStates().DistanceOf(mgr, res.Violation)
	require.True(t, ok, "the violation lies inside the recorded layering")
	assert.Equal(t, 1, d)
}

func TestCheckAGOnlyRejectsEmptyConjunction(t *testing.T) {
	_, _, c := toggleFSM(t)

	_, err := c.CheckAGOnly(nil)
	assert.ErrorIs(t, err, ErrNotAGConjunction)
}
