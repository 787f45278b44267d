package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolRange() Range { return Range{Values: []string{"FALSE", "TRUE"}} }

func TestDeclareStateVarAndQuery(t *testing.T) {
	r := New()
	require.NoError(t, r.DeclareStateVar("x", boolRange()))

	assert.True(t, r.IsSymbolVar("x"))
	assert.True(t, r.IsStateVar("x"))
	assert.False(t, r.IsInputVar("x"))

	rng, err := r.GetVarRange("x")
	require.NoError(t, err)
	assert.Equal(t, 2, rng.Size())
}

func TestDeclareInputVar(t *testing.T) {
	r := New()
	require.NoError(t, r.DeclareInputVar("req", boolRange()))
	assert.True(t, r.IsInputVar("req"))
	assert.False(t, r.IsStateVar("req"))
}

func TestRedeclarationSameDefinitionRecurs(t *testing.T) {
	r := New()
	require.NoError(t, r.DeclareStateVar("x", boolRange()))
	assert.NoError(t, r.DeclareStateVar("x", boolRange()))
}

func TestRedeclarationDifferentDefinitionFails(t *testing.T) {
	r := New()
	require.NoError(t, r.DeclareStateVar("x", boolRange()))
	err := r.DeclareStateVar("x", Range{Values: []string{"a", "b", "c"}})
	assert.ErrorIs(t, err, ErrRedefined)
}

func TestAmbiguousClassificationFails(t *testing.T) {
	r := New()
	require.NoError(t, r.DeclareStateVar("x", boolRange()))
	err := r.DeclareConstant("x")
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestEmptyNameRejected(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.DeclareStateVar("", boolRange()), ErrEmptyName)
}

func TestEmptyRangeRejected(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.DeclareStateVar("x", Range{}), ErrEmptyRange)
}

func TestGetVarRangeUndefined(t *testing.T) {
	r := New()
	_, err := r.GetVarRange("nope")
	assert.ErrorIs(t, err, ErrUndefined)
}

func TestListContainsInputVars(t *testing.T) {
	r := New()
	require.NoError(t, r.DeclareStateVar("x", boolRange()))
	require.NoError(t, r.DeclareInputVar("req", boolRange()))

	assert.True(t, r.ListContainsInputVars([]string{"x", "req"}))
	assert.False(t, r.ListContainsInputVars([]string{"x"}))
}

func TestDeclareAfterEncodeFails(t *testing.T) {
	r := New()
	require.NoError(t, r.DeclareStateVar("x", boolRange()))
	require.NoError(t, r.EncodeVars())

	err := r.DeclareStateVar("y", boolRange())
	assert.ErrorIs(t, err, ErrAlreadyEncoded)
}
