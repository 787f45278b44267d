package ltlx

import (
	"testing"

	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/fsm"
	"github.com/katalvlaran/nuxlite/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toggleModel declares the two-state toggle (x : bool; init: !x; trans:
// next(x) <-> !x) without encoding the registry — Check owns the encoding
// lifecycle for the whole tableau product.
func toggleModel(t *testing.T) (*dagexpr.Interner, *registry.Registry, *fsm.SexpFSM, []string) {
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

	return in, reg, sx, []string{"x"}
}

func TestBuildTableauFutureIntroducesJustice(t *testing.T) {
	in := dagexpr.NewInterner()

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	f := in.Intern(dagexpr.TagOpFuture, x, dagexpr.Empty, 0)

	tab, err := BuildTableau(in, f)
	require.NoError(t, err)
	assert.Len(t, tab.Vars, 1)
	assert.Len(t, tab.FSM.Justice, 1)
}

func TestBuildTableauGlobalHasNoJustice(t *testing.T) {
	in := dagexpr.NewInterner()

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	g := in.Intern(dagexpr.TagOpGlobal, x, dagexpr.Empty, 0)

	tab, err := BuildTableau(in, g)
	require.NoError(t, err)
	assert.Len(t, tab.Vars, 1)
	assert.Empty(t, tab.FSM.Justice)
}

func TestCheckTautologyHolds(t *testing.T) {
	in, reg, sx, names := toggleModel(t)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	notX := in.Intern(dagexpr.TagNot, x, dagexpr.Empty, 0)
	either := in.Intern(dagexpr.TagOr, x, notX, 0)
	phi := in.Intern(dagexpr.TagOpGlobal, either, dagexpr.Empty, 0)

	out, err := New(in, reg, nil).Check(sx, names, phi, fsm.Monolithic)
	require.NoError(t, err)
	assert.True(t, out.Holds)
	assert.Nil(t, out.Trace)
}

func TestCheckEventuallyToggles(t *testing.T) {
	in, reg, sx, names := toggleModel(t)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	phi := in.Intern(dagexpr.TagOpFuture, x, dagexpr.Empty, 0)

	out, err := New(in, reg, nil).Check(sx, names, phi, fsm.Monolithic)
	require.NoError(t, err)
	assert.True(t, out.Holds, "the toggle reaches x within one step on every path")
}

func TestCheckGlobalFailsWithLasso(t *testing.T) {
	in, reg, sx, names := toggleModel(t)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	notX := in.Intern(dagexpr.TagNot, x, dagexpr.Empty, 0)
	phi := in.Intern(dagexpr.TagOpGlobal, notX, dagexpr.Empty, 0)

	out, err := New(in, reg, nil).Check(sx, names, phi, fsm.Monolithic)
	require.NoError(t, err)
	assert.False(t, out.Holds, "the toggle leaves !x after one step")
	require.NotNil(t, out.Trace)
	require.NotNil(t, out.Trace.Loopback, "an LTL counterexample is a lasso")
	require.GreaterOrEqual(t, out.Trace.Len(), 2)

	last := out.Trace.States[out.Trace.Len()-1]
	back := out.Trace.States[*out.Trace.Loopback]
	assert.Equal(t, back["x"], last["x"], "the final state closes the loop")
}

func TestCheckPopsRegistryOnEveryExit(t *testing.T) {
	in, reg, sx, names := toggleModel(t)
	require.NoError(t, reg.DeclareInputVar("i", boolRange()))
	names = append(names, "i")

	// Rebind trans to next(x) <-> i so the input matters.
	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	i := in.InternAtom(dagexpr.TagAtom, "i", 0)
	nextX := in.Intern(dagexpr.TagNext, x, dagexpr.Empty, 0)
	sx.Trans = in.Intern(dagexpr.TagIff, nextX, i, 0)

	xi := in.Intern(dagexpr.TagOpNext, i, dagexpr.Empty, 0)
	impl := in.Intern(dagexpr.TagImplies, x, xi, 0)
	phi := in.Intern(dagexpr.TagOpGlobal, impl, dagexpr.Empty, 0)

	_, err := New(in, reg, nil).Check(sx, names, phi, fsm.Monolithic)
	require.NoError(t, err)

	assert.Equal(t, 0, reg.Depth(), "the push must be matched on exit")
	assert.False(t, reg.IsStateVar("_ltl_in_i"), "the capture variable is discarded by the pop")
	assert.False(t, reg.IsStateVar("_ltl_el_0"), "tableau variables are discarded by the pop")
}
