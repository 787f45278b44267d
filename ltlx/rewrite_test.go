package ltlx

import (
	"testing"

	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolRange() registry.Range { return registry.Range{Values: []string{"FALSE", "TRUE"}} }

func counterRange() registry.Range {
	return registry.Range{Values: []string{"0", "1", "2", "3"}}
}

func newRewriteEnv(t *testing.T) (*dagexpr.Interner, *registry.Registry) {
	t.Helper()

	in := dagexpr.NewInterner()
	reg := registry.New()
	require.NoError(t, reg.DeclareStateVar("x", boolRange()))
	require.NoError(t, reg.DeclareStateVar("c", counterRange()))
	require.NoError(t, reg.DeclareInputVar("i", boolRange()))
	require.NoError(t, reg.DeclareInputVar("j", counterRange()))

	return in, reg
}

func TestRewriteLiftsBareBooleanInput(t *testing.T) {
	in, reg := newRewriteEnv(t)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	i := in.InternAtom(dagexpr.TagAtom, "i", 0)
	xi := in.Intern(dagexpr.TagOpNext, i, dagexpr.Empty, 0)
	impl := in.Intern(dagexpr.TagImplies, x, xi, 0)
	phi := in.Intern(dagexpr.TagOpGlobal, impl, dagexpr.Empty, 0)

	rw, err := RewriteInputs(in, reg, phi)
	require.NoError(t, err)

	require.Len(t, rw.Bindings, 1)
	assert.Equal(t, "i", rw.Bindings[0].Input)
	assert.Equal(t, "_ltl_in_i", rw.Bindings[0].Fresh)

	// G(x -> X i) must become G(x -> X X _ltl_in_i).
	g, _ := in.Get(rw.Expr)
	require.Equal(t, dagexpr.TagOpGlobal, g.Tag)
	body, _ := in.Get(g.Left)
	require.Equal(t, dagexpr.TagImplies, body.Tag)
	outer, _ := in.Get(body.Right)
	require.Equal(t, dagexpr.TagOpNext, outer.Tag)
	inner, _ := in.Get(outer.Left)
	require.Equal(t, dagexpr.TagOpNext, inner.Tag)
	leaf, _ := in.Get(inner.Left)
	assert.Equal(t, dagexpr.TagAtom, leaf.Tag)
	assert.Equal(t, "_ltl_in_i", leaf.Atom)
}

func TestRewriteEqualityAgainstConstantTransfersDirectly(t *testing.T) {
	in, reg := newRewriteEnv(t)

	j := in.InternAtom(dagexpr.TagAtom, "j", 0)
	two := in.InternAtom(dagexpr.TagAtom, "2", 0)
	eq := in.Intern(dagexpr.TagEqual, j, two, 0)
	phi := in.Intern(dagexpr.TagOpFuture, eq, dagexpr.Empty, 0)

	rw, err := RewriteInputs(in, reg, phi)
	require.NoError(t, err)
	require.Len(t, rw.Bindings, 1)

	// F(j = 2) must become F(X(_ltl_in_j = 2)): no range disjunction for a
	// literal right-hand side.
	f, _ := in.Get(rw.Expr)
	require.Equal(t, dagexpr.TagOpFuture, f.Tag)
	next, _ := in.Get(f.Left)
	require.Equal(t, dagexpr.TagOpNext, next.Tag)
	cmp, _ := in.Get(next.Left)
	require.Equal(t, dagexpr.TagEqual, cmp.Tag)
	lhs, _ := in.Get(cmp.Left)
	assert.Equal(t, "_ltl_in_j", lhs.Atom)
}

func TestRewriteRelationalAgainstVariableExpandsRange(t *testing.T) {
	in, reg := newRewriteEnv(t)

	c := in.InternAtom(dagexpr.TagAtom, "c", 0)
	j := in.InternAtom(dagexpr.TagAtom, "j", 0)
	eq := in.Intern(dagexpr.TagEqual, c, j, 0)
	phi := in.Intern(dagexpr.TagOpFuture, eq, dagexpr.Empty, 0)

	rw, err := RewriteInputs(in, reg, phi)
	require.NoError(t, err)
	require.Len(t, rw.Bindings, 1)
	assert.Equal(t, "j", rw.Bindings[0].Input)

	// F(c = j) expands into a disjunction with one arm per value of j's
	// range, each arm conjoining (c = v) with X(_ltl_in_j = v).
	f, _ := in.Get(rw.Expr)
	require.Equal(t, dagexpr.TagOpFuture, f.Tag)
	assert.Equal(t, 4, countOrArms(in, f.Left))
}

func TestRewriteWithoutInputsIsIdentity(t *testing.T) {
	in, reg := newRewriteEnv(t)

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	phi := in.Intern(dagexpr.TagOpGlobal, x, dagexpr.Empty, 0)

	rw, err := RewriteInputs(in, reg, phi)
	require.NoError(t, err)
	assert.Empty(t, rw.Bindings)
	assert.Equal(t, phi, rw.Expr)
}

func TestCaptureConstraintCoversRange(t *testing.T) {
	in, _ := newRewriteEnv(t)

	b := Binding{Input: "j", Fresh: "_ltl_in_j", Range: counterRange()}
	constraint := CaptureConstraint(in, b)
	assert.Equal(t, 4, countOrArms(in, constraint))
}

// countOrArms counts the leaves of a TagOr chain.
func countOrArms(in *dagexpr.Interner, id dagexpr.ID) int {
	n, ok := in.Get(id)
	if !ok || n.Tag != dagexpr.TagOr {
		return 1
	}

	return countOrArms(in, n.Left) + countOrArms(in, n.Right)
}
