package bdd

import (
	"testing"

	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolRange() registry.Range { return registry.Range{Values: []string{"FALSE", "TRUE"}} }

func newFixture(t *testing.T) (*dagexpr.Interner, *registry.Registry, *Indexer, *Manager) {
	t.Helper()

	in := dagexpr.NewInterner()
	reg := registry.New()
	require.NoError(t, reg.DeclareStateVar("x", boolRange()))
	require.NoError(t, reg.DeclareStateVar("y", boolRange()))
	require.NoError(t, reg.EncodeVars())

	idx, err := IndexNames(reg, []string{"x", "y"})
	require.NoError(t, err)
	mgr := NewManager(idx.NumVars())

	return in, reg, idx, mgr
}

func TestExprToBDDAtom(t *testing.T) {
	in, reg, idx, mgr := newFixture(t)
	enc := NewEncoder(in, reg, idx, mgr)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	bx, err := enc.ExprToBDD(x)
	require.NoError(t, err)

	want, _ := enc.litFor(registry.Bit{Var: "x", Index: 0}, true, false)
	assert.Equal(t, want, bx)
}

func TestExprToBDDAndNot(t *testing.T) {
	in, reg, idx, mgr := newFixture(t)
	enc := NewEncoder(in, reg, idx, mgr)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	y := in.InternAtom(dagexpr.TagAtom, "y", 0)
	and := in.Intern(dagexpr.TagAnd, x, y, 0)
	notAnd := in.Intern(dagexpr.TagNot, and, dagexpr.Empty, 0)

	bAnd, err := enc.ExprToBDD(and)
	require.NoError(t, err)
	bNot, err := enc.ExprToBDD(notAnd)
	require.NoError(t, err)

	assert.Equal(t, mgr.Not(bAnd), bNot)
}

func TestExprToBDDNextUsesNextFrame(t *testing.T) {
	in, reg, idx, mgr := newFixture(t)
	enc := NewEncoder(in, reg, idx, mgr)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	nextX := in.Intern(dagexpr.TagNext, x, dagexpr.Empty, 0)

	b, err := enc.ExprToBDD(nextX)
	require.NoError(t, err)

	nextIdx, ok := idx.Next(registry.Bit{Var: "x", Index: 0})
	require.True(t, ok)
	want, _ := mgr.Var(nextIdx)
	assert.Equal(t, want, b)
}

func TestExprToBDDRejectsNestedNext(t *testing.T) {
	in, reg, idx, mgr := newFixture(t)
	enc := NewEncoder(in, reg, idx, mgr)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	nextX := in.Intern(dagexpr.TagNext, x, dagexpr.Empty, 0)
	nestedNext := in.Intern(dagexpr.TagNext, nextX, dagexpr.Empty, 0)

	_, err := enc.ExprToBDD(nestedNext)
	assert.ErrorIs(t, err, ErrUnsupportedTag)
}

func TestDefineExpansion(t *testing.T) {
	in, reg, idx, mgr := newFixture(t)
	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	require.NoError(t, reg.DeclareDefine("d", "main", x))

	enc := NewEncoder(in, reg, idx, mgr)
	d := in.InternAtom(dagexpr.TagAtom, "d", 0)
	bd, err := enc.ExprToBDD(d)
	require.NoError(t, err)

	bx, err := enc.ExprToBDD(x)
	require.NoError(t, err)
	assert.Equal(t, bx, bd)
}

func TestCircularDefineDetected(t *testing.T) {
	in, reg, idx, mgr := newFixture(t)
	d2Atom := in.InternAtom(dagexpr.TagAtom, "d2", 0)
	d1Atom := in.InternAtom(dagexpr.TagAtom, "d1", 0)
	require.NoError(t, reg.DeclareDefine("d1", "main", d2Atom))
	require.NoError(t, reg.DeclareDefine("d2", "main", d1Atom))

	enc := NewEncoder(in, reg, idx, mgr)
	_, err := enc.ExprToBDD(d1Atom)
	assert.ErrorIs(t, err, ErrCircularDefine)
}

func TestPickOneStateRoundTrips(t *testing.T) {
	in, reg, idx, mgr := newFixture(t)
	enc := NewEncoder(in, reg, idx, mgr)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	bx, err := enc.ExprToBDD(x)
	require.NoError(t, err)

	assign, err := enc.PickOneState(bx)
	require.NoError(t, err)
	assert.Equal(t, "TRUE", assign["x"])
}

func TestStateMaskExcludesSpareBitPatterns(t *testing.T) {
	in := dagexpr.NewInterner()
	reg := registry.New()
	require.NoError(t, reg.DeclareStateVar("m", registry.Range{Values: []string{"a", "b", "c"}}))
	require.NoError(t, reg.EncodeVars())

	idx, err := IndexNames(reg, []string{"m"})
	require.NoError(t, err)
	mgr := NewManager(idx.NumVars())
	enc := NewEncoder(in, reg, idx, mgr)

	mask, err := enc.StateMask()
	require.NoError(t, err)
	defer mgr.Deref(mask)

	// A 3-value range over 2 bits admits exactly 3 of the 4 bit patterns.
	assert.InDelta(t, 3.0, mgr.CountMinterms(mask, 2), 0.001)
}

func TestStateMaskTrivialForPowerOfTwoRange(t *testing.T) {
	in, reg, idx, mgr := newFixture(t)
	enc := NewEncoder(in, reg, idx, mgr)

	mask, err := enc.StateMask()
	require.NoError(t, err)
	defer mgr.Deref(mask)
	assert.Equal(t, mgr.True(), mask)
}
