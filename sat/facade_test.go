package sat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nuxlite/be"
)

func TestCreateRejectsUnknownBackend(t *testing.T) {
	_, err := Create("unobtainium")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSuchSolver)
}

func TestSolveAllGroupsSatisfiable(t *testing.T) {
	f, err := Create("dpll")
	require.NoError(t, err)

	// (x1 or x2) and (not x1 or x2) and (x1 or not x2) is satisfiable at x1=x2=true.
	f.numVars = 2
	require.NoError(t, f.Add(cnfLit(2, [][]int{{1, 2}, {-1, 2}, {1, -2}}), "g1"))

	status, err := f.SolveAllGroups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSAT, status)

	model, err := f.GetModel()
	require.NoError(t, err)
	assert.True(t, model[1])
	assert.True(t, model[2])
}

func TestSolveAllGroupsUnsatisfiable(t *testing.T) {
	f, err := Create("dpll")
	require.NoError(t, err)

	f.numVars = 1
	require.NoError(t, f.Add(cnfLit(1, [][]int{{1}, {-1}}), "g1"))

	status, err := f.SolveAllGroups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusUNSAT, status)

	_, err = f.GetModel()
	assert.ErrorIs(t, err, ErrNoModel)
}

func TestSetPolarityForcesOutputLiteral(t *testing.T) {
	f, err := Create("dpll")
	require.NoError(t, err)

	// x1 <-> x2, forced true: x1=x2=true is the only model.
	cnf := cnfLit(2, [][]int{{-1, 2}, {1, -2}})
	cnf.Output = 1
	require.NoError(t, f.Add(cnf, "g1"))
	require.NoError(t, f.SetPolarity(cnf, 1, "g1"))

	status, err := f.SolveAllGroups(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusSAT, status)

	model, err := f.GetModel()
	require.NoError(t, err)
	assert.True(t, model[1])
	assert.True(t, model[2])
}

func TestRemoveGroupDropsItsClauses(t *testing.T) {
	f, err := Create("dpll")
	require.NoError(t, err)

	f.numVars = 1
	require.NoError(t, f.Add(cnfLit(1, [][]int{{1}}), "a"))
	require.NoError(t, f.Add(cnfLit(1, [][]int{{-1}}), "b"))

	status, _ := f.SolveAllGroups(context.Background())
	assert.Equal(t, StatusUNSAT, status)

	require.NoError(t, f.RemoveGroup("b"))
	status, _ = f.SolveAllGroups(context.Background())
	assert.Equal(t, StatusSAT, status)
}

func TestSolveUnderAssumptionsDoesNotPersist(t *testing.T) {
	f, err := Create("dpll")
	require.NoError(t, err)

	f.numVars = 1
	require.NoError(t, f.Add(cnfLit(1, nil), "g1"))

	status, err := f.SolveUnderAssumptions(context.Background(), []int{1})
	require.NoError(t, err)
	assert.Equal(t, StatusSAT, status)
	model, _ := f.GetModel()
	assert.True(t, model[1])

	// The assumption was not persisted: both polarities remain solvable.
	status, err = f.SolveUnderAssumptions(context.Background(), []int{-1})
	require.NoError(t, err)
	assert.Equal(t, StatusSAT, status)
	model, _ = f.GetModel()
	assert.False(t, model[1])
}

func TestSolveAllGroupsHonorsContextCancellation(t *testing.T) {
	f, err := Create("dpll")
	require.NoError(t, err)

	// Two unassigned literals: propagation alone can't resolve this clause,
	// so the root search node reaches the deadline check before deciding.
	f.numVars = 2
	require.NoError(t, f.Add(cnfLit(2, [][]int{{1, 2}}), "g1"))

	ctx, cancel := deadlineFromTimeout(time.Hour)
	cancel() // canceled before solving even starts

	status, err := f.SolveAllGroups(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusTimeout, status)
}

func TestDestroyRejectsFurtherUse(t *testing.T) {
	f, err := Create("dpll")
	require.NoError(t, err)
	f.Destroy()

	err = f.Add(cnfLit(1, nil), "g1")
	assert.ErrorIs(t, err, ErrAlreadyDestroyed)
}

// cnfLit builds a be.CNF directly from raw DIMACS clauses, for tests that
// exercise only Facade's group/solve plumbing and don't need a real Tseitin
// conversion from a be.Manager expression.
func cnfLit(numVars int, clauses [][]int) be.CNF {
	return be.CNF{NumVars: numVars, Clauses: clauses}
}
