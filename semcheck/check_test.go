package semcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/registry"
)

func boolRange() registry.Range { return registry.Range{Values: []string{"FALSE", "TRUE"}} }

func TestCheckMultipleAssignmentDetectsDuplicate(t *testing.T) {
	in := dagexpr.NewInterner()
	reg := registry.New()
	require.NoError(t, reg.DeclareStateVar("x", boolRange()))

	c := New(in, reg)
	m := Model{Assignments: []Assignment{
		{LHS: LHS{Var: "x", Kind: LHSPlain}, RHS: in.Intern(dagexpr.TagTrue, dagexpr.Empty, dagexpr.Empty, 1), Line: 1},
		{LHS: LHS{Var: "x", Kind: LHSPlain}, RHS: in.Intern(dagexpr.TagFalse, dagexpr.Empty, dagexpr.Empty, 2), Line: 2},
	}}

	err := c.CheckMultipleAssignment(m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMultipleAssignment)
}

func TestCheckCircularityDetectsSelfReference(t *testing.T) {
	in := dagexpr.NewInterner()
	reg := registry.New()
	require.NoError(t, reg.DeclareStateVar("x", boolRange()))

	c := New(in, reg)
	xAtom := in.InternAtom(dagexpr.TagAtom, "x", 1)
	m := Model{Assignments: []Assignment{
		{LHS: LHS{Var: "x", Kind: LHSPlain}, RHS: xAtom, Line: 1},
	}}

	err := c.CheckCircularity(m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircularDefinition)
}

func TestCheckCircularityAcceptsAcyclicChain(t *testing.T) {
	in := dagexpr.NewInterner()
	reg := registry.New()
	require.NoError(t, reg.DeclareStateVar("x", boolRange()))
	require.NoError(t, reg.DeclareStateVar("y", boolRange()))

	c := New(in, reg)
	yAtom := in.InternAtom(dagexpr.TagAtom, "y", 1)
	m := Model{Assignments: []Assignment{
		{LHS: LHS{Var: "x", Kind: LHSPlain}, RHS: yAtom, Line: 1},
		{LHS: LHS{Var: "y", Kind: LHSPlain}, RHS: in.Intern(dagexpr.TagTrue, dagexpr.Empty, dagexpr.Empty, 2), Line: 2},
	}}

	assert.NoError(t, c.CheckCircularity(m))
}

func TestCheckInputRestrictionRejectsInputInTrans(t *testing.T) {
	in := dagexpr.NewInterner()
	reg := registry.New()
	require.NoError(t, reg.DeclareInputVar("i", boolRange()))

	c := New(in, reg)
	iAtom := in.InternAtom(dagexpr.TagAtom, "i", 1)
	m := Model{Trans: iAtom}

	err := c.CheckInputRestriction(m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputInDisallowedPosition)
}

func TestCheckInputRestrictionAllowsInputInNextAssignment(t *testing.T) {
	in := dagexpr.NewInterner()
	reg := registry.New()
	require.NoError(t, reg.DeclareInputVar("i", boolRange()))
	require.NoError(t, reg.DeclareStateVar("x", boolRange()))

	c := New(in, reg)
	iAtom := in.InternAtom(dagexpr.TagAtom, "i", 1)
	m := Model{Assignments: []Assignment{
		{LHS: LHS{Var: "x", Kind: LHSNext}, RHS: iAtom, Line: 1},
	}}

	assert.NoError(t, c.CheckInputRestriction(m))
}

func TestCheckInputRestrictionRejectsNestedNext(t *testing.T) {
	in := dagexpr.NewInterner()
	reg := registry.New()
	require.NoError(t, reg.DeclareStateVar("x", boolRange()))

	c := New(in, reg)
	xAtom := in.InternAtom(dagexpr.TagAtom, "x", 1)
	inner := in.Intern(dagexpr.TagNext, xAtom, dagexpr.Empty, 1)
	outer := in.Intern(dagexpr.TagNext, inner, dagexpr.Empty, 1)
	m := Model{Trans: outer}

	err := c.CheckInputRestriction(m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNestedNext)
}

func TestCheckPropertyInvarSpecAllowsInputOutsideNext(t *testing.T) {
	in := dagexpr.NewInterner()
	reg := registry.New()
	require.NoError(t, reg.DeclareInputVar("i", boolRange()))

	c := New(in, reg)
	iAtom := in.InternAtom(dagexpr.TagAtom, "i", 1)

	assert.NoError(t, c.CheckProperty(iAtom, CtxInvarSpec))

	nexted := in.Intern(dagexpr.TagNext, iAtom, dagexpr.Empty, 1)
	err := c.CheckProperty(nexted, CtxInvarSpec)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputInDisallowedPosition)
}
