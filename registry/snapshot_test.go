package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPopUndoesDeclarations(t *testing.T) {
	r := New()
	require.NoError(t, r.DeclareStateVar("x", boolRange()))

	r.PushStatus()
	require.NoError(t, r.DeclareStateVar("y", boolRange()))
	assert.True(t, r.IsStateVar("y"))

	require.NoError(t, r.PopStatus())
	assert.True(t, r.IsStateVar("x"))
	assert.False(t, r.IsStateVar("y"))
}

func TestPushPopUndoesEncoding(t *testing.T) {
	r := New()
	require.NoError(t, r.DeclareStateVar("x", boolRange()))

	r.PushStatus()
	require.NoError(t, r.EncodeVars())
	assert.True(t, r.Encoded())

	require.NoError(t, r.PopStatus())
	assert.False(t, r.Encoded())
	assert.NoError(t, r.DeclareStateVar("y", boolRange()))
}

func TestPopWithoutPushFails(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.PopStatus(), ErrEmptyStack)
}

func TestNestedPushPop(t *testing.T) {
	r := New()
	require.NoError(t, r.DeclareStateVar("x", boolRange()))

	r.PushStatus()
	require.NoError(t, r.DeclareStateVar("y", boolRange()))

	r.PushStatus()
	require.NoError(t, r.DeclareStateVar("z", boolRange()))
	assert.Equal(t, 2, r.Depth())

	require.NoError(t, r.PopStatus())
	assert.True(t, r.IsStateVar("y"))
	assert.False(t, r.IsStateVar("z"))

	require.NoError(t, r.PopStatus())
	assert.False(t, r.IsStateVar("y"))
	assert.Equal(t, 0, r.Depth())
}
