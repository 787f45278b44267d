package session

import (
	"context"
	"testing"

	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/fsm"
	"github.com/katalvlaran/nuxlite/propdb"
	"github.com/katalvlaran/nuxlite/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolRange() registry.Range { return registry.Range{Values: []string{"FALSE", "TRUE"}} }

// toggleSession declares and installs the two-state toggle.
func toggleSession(t *testing.T, opts ...Option) *Session {
	t.Helper()

	s := New(opts...)
	require.NoError(t, s.DeclareStateVar("x", boolRange()))

	in := s.Interner()
	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	initExpr := in.Intern(dagexpr.TagNot, x, dagexpr.Empty, 0)
	nextX := in.Intern(dagexpr.TagNext, x, dagexpr.Empty, 0)
	notX := in.Intern(dagexpr.TagNot, x, dagexpr.Empty, 0)
	transExpr := in.Intern(dagexpr.TagIff, nextX, notX, 0)

	require.NoError(t, s.SetModel(fsm.NewSexpFSM(initExpr, in.True(), transExpr, in.True(), nil, nil)))

	return s
}

func TestSessionEndToEndToggle(t *testing.T) {
	s := toggleSession(t, WithPartitionMethod(fsm.Monolithic))
	defer s.Close()

	in := s.Interner()
	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	zero := in.InternAtom(dagexpr.TagAtom, "0", 0)
	one := in.InternAtom(dagexpr.TagAtom, "1", 0)
	either := in.Intern(dagexpr.TagOr,
		in.Intern(dagexpr.TagEqual, x, zero, 0),
		in.Intern(dagexpr.TagEqual, x, one, 0), 0)

	db, err := s.Properties()
	require.NoError(t, err)

	okIdx, err := db.CreateAndAdd(in.Intern(dagexpr.TagAG, either, dagexpr.Empty, 0), propdb.KindCTL)
	require.NoError(t, err)
	badIdx, err := db.CreateAndAdd(
		in.Intern(dagexpr.TagAG, in.Intern(dagexpr.TagEqual, x, zero, 0), dagexpr.Empty, 0),
		propdb.KindCTL)
	require.NoError(t, err)

	require.NoError(t, db.VerifyAll(context.Background()))

	p, _ := db.Get(okIdx)
	assert.Equal(t, propdb.StatusTrue, p.Status)

	p, _ = db.Get(badIdx)
	assert.Equal(t, propdb.StatusFalse, p.Status)
	require.GreaterOrEqual(t, p.TraceID, 0)
	tr, ok := s.Traces().Get(p.TraceID)
	require.True(t, ok)
	assert.Equal(t, 2, tr.Len())
}

func TestSessionBuildBDDFSMCachesUntilModelChanges(t *testing.T) {
	s := toggleSession(t)
	defer s.Close()

	f1, err := s.BuildBDDFSM()
	require.NoError(t, err)
	f2, err := s.BuildBDDFSM()
	require.NoError(t, err)
	assert.Same(t, f1, f2, "the FSM is cached between calls")

	sx, err := s.Model()
	require.NoError(t, err)
	require.NoError(t, s.SetModel(sx))
	f3, err := s.BuildBDDFSM()
	require.NoError(t, err)
	assert.NotSame(t, f1, f3, "SetModel invalidates the cached FSM")
}

func TestSessionRejectsCircularModel(t *testing.T) {
	s := New()
	require.NoError(t, s.DeclareStateVar("x", boolRange()))

	in := s.Interner()
	body := in.InternAtom(dagexpr.TagAtom, "d", 0)
	require.NoError(t, s.DeclareDefine("d", "", body)) // d := d

	x := in.InternAtom(dagexpr.TagAtom, "x", 0)
	initExpr := in.Intern(dagexpr.TagIff, x, body, 0)
	err := s.SetModel(fsm.NewSexpFSM(initExpr, in.True(), in.True(), in.True(), nil, nil))
	assert.Error(t, err, "a recursively defined symbol fails the semantic check")

	_, err = s.Model()
	assert.ErrorIs(t, err, ErrNoModel, "the rejected model is not installed")
}

func TestSessionOrderingFileShapesEncoding(t *testing.T) {
	s := New(WithOrderingFile("b a"))
	require.NoError(t, s.DeclareStateVar("a", boolRange()))
	require.NoError(t, s.DeclareStateVar("b", boolRange()))
	require.NoError(t, s.Encode())

	a, ok := s.Registry().Variable("a")
	require.True(t, ok)
	b, ok := s.Registry().Variable("b")
	require.True(t, ok)
	assert.Less(t, b.Position, a.Position, "the ordering file puts b before a")
}
