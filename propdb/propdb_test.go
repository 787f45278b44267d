package propdb

import (
	"context"
	"testing"

	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/fsm"
	"github.com/katalvlaran/nuxlite/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolRange() registry.Range { return registry.Range{Values: []string{"FALSE", "TRUE"}} }

// toggleDB wraps the two-state toggle in a fresh database.
func toggleDB(t *testing.T, opts ...Option) (*dagexpr.Interner, *DB) {
	t.Helper()

	in := dagexpr.NewInterner()
	reg := registry.New()
	require.NoError(t, reg.DeclareStateVar("x", boolRange()))

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	initExpr := in.Intern(dagexpr.TagNot, x, dagexpr.Empty, 0)
	nextX := in.Intern(dagexpr.TagNext, x, dagexpr.Empty, 0)
	notX := in.Intern(dagexpr.TagNot, x, dagexpr.Empty, 0)
	transExpr := in.Intern(dagexpr.TagIff, nextX, notX, 0)
	sx := fsm.NewSexpFSM(initExpr, in.True(), transExpr, in.True(), nil, nil)

	return in, New(in, reg, sx, []string{"x"}, fsm.Monolithic, opts...)
}

// counterDB wraps the mod-4 counter (c : 0..3; init c=0; next(c) = c+1
// mod 4, written as the equality table the bit-blasting encoder accepts).
func counterDB(t *testing.T, opts ...Option) (*dagexpr.Interner, *DB) {
	t.Helper()

	in := dagexpr.NewInterner()
	reg := registry.New()
	rng := registry.Range{Values: []string{"0", "1", "2", "3"}}
	require.NoError(t, reg.DeclareStateVar("c", rng))

	c := in.InternAtom(dagexpr.TagAtom, "c", 0)
	eq := func(v string) dagexpr.ID {
		return in.Intern(dagexpr.TagEqual, c, in.InternAtom(dagexpr.TagAtom, v, 0), 0)
	}
	step := func(from, to string) dagexpr.ID {
		next := in.Intern(dagexpr.TagNext, eq(to), dagexpr.Empty, 0)

		return in.Intern(dagexpr.TagAnd, eq(from), next, 0)
	}
	trans := step("0", "1")
	for _, s := range [][2]string{{"1", "2"}, {"2", "3"}, {"3", "0"}} {
		trans = in.Intern(dagexpr.TagOr, trans, step(s[0], s[1]), 0)
	}
	sx := fsm.NewSexpFSM(eq("0"), in.True(), trans, in.True(), nil, nil)

	return in, New(in, reg, sx, []string{"c"}, fsm.Monolithic, opts...)
}

func TestVerifyCTLTautologyHolds(t *testing.T) {
	in, db := toggleDB(t)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	zero := in.InternAtom(dagexpr.TagAtom, "0", 0)
	one := in.InternAtom(dagexpr.TagAtom, "1", 0)
	either := in.Intern(dagexpr.TagOr,
		in.Intern(dagexpr.TagEqual, x, zero, 0),
		in.Intern(dagexpr.TagEqual, x, one, 0), 0)
	ag := in.Intern(dagexpr.TagAG, either, dagexpr.Empty, 0)

	idx, err := db.CreateAndAdd(ag, KindCTL)
	require.NoError(t, err)
	require.NoError(t, db.Verify(context.Background(), idx))

	p, _ := db.Get(idx)
	assert.Equal(t, StatusTrue, p.Status)
	assert.Equal(t, -1, p.TraceID, "a passing property carries no trace")
}

func TestVerifyCTLAGViolationYieldsTrace(t *testing.T) {
	in, db := toggleDB(t)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	zero := in.InternAtom(dagexpr.TagAtom, "0", 0)
	ag := in.Intern(dagexpr.TagAG, in.Intern(dagexpr.TagEqual, x, zero, 0), dagexpr.Empty, 0)

	idx, err := db.CreateAndAdd(ag, KindCTL)
	require.NoError(t, err)
	require.NoError(t, db.Verify(context.Background(), idx))

	p, _ := db.Get(idx)
	assert.Equal(t, StatusFalse, p.Status)
	require.GreaterOrEqual(t, p.TraceID, 0)

	tr, ok := db.Traces().Get(p.TraceID)
	require.True(t, ok)
	require.Equal(t, 2, tr.Len(), "the violation is one step from the initial state")
	assert.Equal(t, "FALSE", tr.States[0]["x"])
	assert.Equal(t, "TRUE", tr.States[1]["x"])
}

func TestVerifyCTLEventuallyReachesTop(t *testing.T) {
	in, db := counterDB(t)

	c := in.InternAtom(dagexpr.TagAtom, "c", 0)
	three := in.InternAtom(dagexpr.TagAtom, "3", 0)
	af := in.Intern(dagexpr.TagAF, in.Intern(dagexpr.TagEqual, c, three, 0), dagexpr.Empty, 0)

	idx, err := db.CreateAndAdd(af, KindCTL)
	require.NoError(t, err)
	require.NoError(t, db.Verify(context.Background(), idx))

	p, _ := db.Get(idx)
	assert.Equal(t, StatusTrue, p.Status)
}

func TestVerifyComputeMinDistance(t *testing.T) {
	in, db := counterDB(t)

	c := in.InternAtom(dagexpr.TagAtom, "c", 0)
	zero := in.InternAtom(dagexpr.TagAtom, "0", 0)
	three := in.InternAtom(dagexpr.TagAtom, "3", 0)
	min := in.Intern(dagexpr.TagMin,
		in.Intern(dagexpr.TagEqual, c, zero, 0),
		in.Intern(dagexpr.TagEqual, c, three, 0), 0)

	idx, err := db.CreateAndAdd(min, KindCompute)
	require.NoError(t, err)
	require.NoError(t, db.Verify(context.Background(), idx))

	p, _ := db.Get(idx)
	require.Equal(t, StatusNumber, p.Status)
	assert.False(t, p.Number.Infinite)
	assert.Equal(t, 3, p.Number.Value)
}

func TestVerifyInvarOutOfRangeConstantEncodes(t *testing.T) {
	in, db := counterDB(t, WithKInduction(10), WithSolver("dpll"))

	c := in.InternAtom(dagexpr.TagAtom, "c", 0)
	four := in.InternAtom(dagexpr.TagAtom, "4", 0)
	psi := in.Intern(dagexpr.TagNotEqual, c, four, 0)

	idx, err := db.CreateAndAdd(psi, KindInvar)
	require.NoError(t, err)
	require.NoError(t, db.Verify(context.Background(), idx))

	p, _ := db.Get(idx)
	assert.Equal(t, StatusTrue, p.Status, "c != 4 is vacuously true over 0..3")
}

func TestVerifyInvarForwardFindsViolation(t *testing.T) {
	in, db := counterDB(t)

	c := in.InternAtom(dagexpr.TagAtom, "c", 0)
	three := in.InternAtom(dagexpr.TagAtom, "3", 0)
	psi := in.Intern(dagexpr.TagNotEqual, c, three, 0)

	idx, err := db.CreateAndAdd(psi, KindInvar)
	require.NoError(t, err)
	require.NoError(t, db.Verify(context.Background(), idx))

	p, _ := db.Get(idx)
	assert.Equal(t, StatusFalse, p.Status)
	require.GreaterOrEqual(t, p.TraceID, 0)
	tr, _ := db.Traces().Get(p.TraceID)
	assert.Equal(t, 4, tr.Len(), "the counter first hits 3 at distance 3")
}

func TestVerifyLTLThroughTableau(t *testing.T) {
	in, db := toggleDB(t)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	phi := in.Intern(dagexpr.TagOpFuture, x, dagexpr.Empty, 0)

	idx, err := db.CreateAndAdd(phi, KindLTL)
	require.NoError(t, err)
	require.NoError(t, db.Verify(context.Background(), idx))

	p, _ := db.Get(idx)
	assert.Equal(t, StatusTrue, p.Status)
}

func TestPSLLowersToLTLAndMemoizes(t *testing.T) {
	in, db := toggleDB(t)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	phi := in.Intern(dagexpr.TagOpFuture, x, dagexpr.Empty, 0)

	idx, err := db.CreateAndAdd(phi, KindPSL)
	require.NoError(t, err)
	require.NoError(t, db.Verify(context.Background(), idx))

	p, _ := db.Get(idx)
	assert.Equal(t, StatusTrue, p.Status)
	assert.Equal(t, KindLTL, p.lowered)
	assert.Equal(t, KindPSL, p.Kind, "lowering never rewrites the declared kind")
}

func TestPSLMixedOperatorsRejected(t *testing.T) {
	in, db := toggleDB(t)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	ag := in.Intern(dagexpr.TagAG, x, dagexpr.Empty, 0)
	mixed := in.Intern(dagexpr.TagOpFuture, ag, dagexpr.Empty, 0)

	idx, err := db.CreateAndAdd(mixed, KindPSL)
	require.NoError(t, err)
	require.Error(t, db.Verify(context.Background(), idx))

	p, _ := db.Get(idx)
	assert.Equal(t, StatusWrong, p.Status)
}

func TestCreateAndAddRejectsInputInCTL(t *testing.T) {
	in, db := toggleDB(t)
	require.NoError(t, db.reg.DeclareInputVar("i", boolRange()))

	i := in.InternAtom(dagexpr.TagAtom, "i", 0)
	ag := in.Intern(dagexpr.TagAG, i, dagexpr.Empty, 0)

	_, err := db.CreateAndAdd(ag, KindCTL)
	assert.Error(t, err, "CTL properties may not mention input variables")
}

func TestVerifyIsIdempotent(t *testing.T) {
	in, db := toggleDB(t)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	zero := in.InternAtom(dagexpr.TagAtom, "0", 0)
	ag := in.Intern(dagexpr.TagAG, in.Intern(dagexpr.TagEqual, x, zero, 0), dagexpr.Empty, 0)

	idx, err := db.CreateAndAdd(ag, KindCTL)
	require.NoError(t, err)
	require.NoError(t, db.Verify(context.Background(), idx))
	p, _ := db.Get(idx)
	traceID := p.TraceID

	require.NoError(t, db.Verify(context.Background(), idx), "a second verify is a no-op")
	assert.Equal(t, traceID, p.TraceID)
	assert.Equal(t, 1, db.Traces().Len(), "no second trace is synthesized")
}

func TestVerifyAllCoversEveryKind(t *testing.T) {
	in, db := toggleDB(t)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	zero := in.InternAtom(dagexpr.TagAtom, "0", 0)
	one := in.InternAtom(dagexpr.TagAtom, "1", 0)
	either := in.Intern(dagexpr.TagOr,
		in.Intern(dagexpr.TagEqual, x, zero, 0),
		in.Intern(dagexpr.TagEqual, x, one, 0), 0)

	ctlIdx, err := db.CreateAndAdd(in.Intern(dagexpr.TagAG, either, dagexpr.Empty, 0), KindCTL)
	require.NoError(t, err)
	invIdx, err := db.CreateAndAdd(either, KindInvar)
	require.NoError(t, err)
	ltlIdx, err := db.CreateAndAdd(in.Intern(dagexpr.TagOpGlobal, either, dagexpr.Empty, 0), KindLTL)
	require.NoError(t, err)

	require.NoError(t, db.VerifyAll(context.Background()))
	for _, idx := range []int{ctlIdx, invIdx, ltlIdx} {
		p, _ := db.Get(idx)
		assert.Equal(t, StatusTrue, p.Status, "property %d", idx)
	}
}

func TestPrintPropertiesFiltersByStatus(t *testing.T) {
	in, db := toggleDB(t)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	zero := in.InternAtom(dagexpr.TagAtom, "0", 0)
	ag := in.Intern(dagexpr.TagAG, in.Intern(dagexpr.TagEqual, x, zero, 0), dagexpr.Empty, 0)

	idx, err := db.CreateAndAdd(ag, KindCTL)
	require.NoError(t, err)

	unchecked := StatusUnchecked
	lines := db.PrintProperties(Filter{Status: &unchecked})
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "CTL")
	assert.Contains(t, lines[0], "Unchecked")

	require.NoError(t, db.Verify(context.Background(), idx))
	assert.Empty(t, db.PrintProperties(Filter{Status: &unchecked}))

	failed := StatusFalse
	lines = db.PrintProperties(Filter{Status: &failed})
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "trace 0")
}

func TestConeOfInfluenceBuildsLocalFSM(t *testing.T) {
	in := dagexpr.NewInterner()
	reg := registry.New()
	require.NoError(t, reg.DeclareStateVar("x", boolRange()))
	require.NoError(t, reg.DeclareStateVar("y", boolRange()))

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	y := in.InternAtom(dagexpr.TagAtom, "y", 0)
	notX := in.Intern(dagexpr.TagNot, x, dagexpr.Empty, 0)
	notY := in.Intern(dagexpr.TagNot, y, dagexpr.Empty, 0)
	initExpr := in.Intern(dagexpr.TagAnd, notX, notY, 0)

	// x toggles on its own; y toggles on its own. Two independent cones.
	nextX := in.Intern(dagexpr.TagNext, x, dagexpr.Empty, 0)
	nextY := in.Intern(dagexpr.TagNext, y, dagexpr.Empty, 0)
	transX := in.Intern(dagexpr.TagIff, nextX, notX, 0)
	transY := in.Intern(dagexpr.TagIff, nextY, notY, 0)
	trans := in.Intern(dagexpr.TagAnd, transX, transY, 0)
	sx := fsm.NewSexpFSM(initExpr, in.True(), trans, in.True(), nil, nil)

	db := New(in, reg, sx, []string{"x", "y"}, fsm.Monolithic, WithConeOfInfluence(true))

	zero := in.InternAtom(dagexpr.TagAtom, "0", 0)
	one := in.InternAtom(dagexpr.TagAtom, "1", 0)
	either := in.Intern(dagexpr.TagOr,
		in.Intern(dagexpr.TagEqual, x, zero, 0),
		in.Intern(dagexpr.TagEqual, x, one, 0), 0)
	ag := in.Intern(dagexpr.TagAG, either, dagexpr.Empty, 0)

	idx, err := db.CreateAndAdd(ag, KindCTL)
	require.NoError(t, err)
	require.NoError(t, db.Verify(context.Background(), idx))

	p, _ := db.Get(idx)
	assert.Equal(t, StatusTrue, p.Status)
	require.NotNil(t, p.cone)
	assert.True(t, p.cone.Contains("x"))
	assert.False(t, p.cone.Contains("y"), "y is outside the property's cone")
}
