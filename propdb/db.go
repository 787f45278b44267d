package propdb

import (
	"fmt"

	"github.com/katalvlaran/nuxlite/bdd"
	"github.com/katalvlaran/nuxlite/coi"
	"github.com/katalvlaran/nuxlite/ctl"
	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/fsm"
	"github.com/katalvlaran/nuxlite/registry"
	"github.com/katalvlaran/nuxlite/semcheck"
	"github.com/katalvlaran/nuxlite/trace"
	"github.com/sirupsen/logrus"
)

// DB is the property database. It borrows the session's interner, registry
// and Sexp FSM, owns its property records, and builds BDD-level machinery
// lazily lifecycle ("per-property FSM slots are filled
// lazily the first time a property is verified").
type DB struct {
	in     *dagexpr.Interner
	reg    *registry.Registry
	sx     *fsm.SexpFSM
	names  []string // declaration-order state+input variable names
	method fsm.PartitionMethod
	log    logrus.FieldLogger
	traces *trace.Manager
	sem    *semcheck.Checker

	useCOI     bool
	kInduction bool
	maxK       int
	solver     string

	props  []*Property
	shared *modelEnv
}

// Option configures a DB at New time.
type Option func(*DB)

// WithLogger routes the database's diagnostics to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(db *DB) { db.log = log }
}

// WithConeOfInfluence enables per-property FSM restriction to the
// property's variable cone.
func WithConeOfInfluence(on bool) Option {
	return func(db *DB) { db.useCOI = on }
}

// WithKInduction verifies INVAR properties by SAT-based k-induction up to
// maxK instead of BDD forward reachability.
func WithKInduction(maxK int) Option {
	return func(db *DB) { db.kInduction = true; db.maxK = maxK }
}

// WithSolver names the SAT solver the k-induction path creates.
func WithSolver(name string) Option {
	return func(db *DB) { db.solver = name }
}

// WithTraceManager substitutes the trace sink counterexamples are handed
// to; by default the DB owns a fresh in-memory manager.
func WithTraceManager(m *trace.Manager) Option {
	return func(db *DB) { db.traces = m }
}

// New returns a DB over the given model. varNames is the declaration-order
// list of state and input variable names; method is the partitioning every
// lazily built FSM uses.
func New(in *dagexpr.Interner, reg *registry.Registry, sx *fsm.SexpFSM, varNames []string, method fsm.PartitionMethod, opts ...Option) *DB {
	db := &DB{
		in:     in,
		reg:    reg,
		sx:     sx,
		names:  append([]string(nil), varNames...),
		method: method,
		sem:    semcheck.New(in, reg),
		solver: "dpll",
		maxK:   10,
	}
	for _, opt := range opts {
		opt(db)
	}
	if db.log == nil {
		l := logrus.New()
		l.SetOutput(nilWriter{})
		db.log = l
	}
	if db.traces == nil {
		db.traces = trace.NewManager()
	}

	return db
}

type nilWriter struct{}

func (nilWriter) Write(p []byte) (int, error) { return len(p), nil }

// Traces exposes the trace manager counterexamples were handed to.
func (db *DB) Traces() *trace.Manager { return db.traces }

// Len reports the number of stored properties.
func (db *DB) Len() int { return len(db.props) }

// Get returns the property at index.
func (db *DB) Get(index int) (*Property, error) {
	if index < 0 || index >= len(db.props) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchProperty, index)
	}

	return db.props[index], nil
}

// CreateAndAdd typechecks expr for its kind's input-variable restriction
// (rejects CTL/INVAR/COMPUTE containing inputs), assigns
// the next dense index, and stores the property as Unchecked.
func (db *DB) CreateAndAdd(expr dagexpr.ID, kind Kind) (int, error) {
	var ctx semcheck.Context
	switch kind {
	case KindCTL:
		ctx = semcheck.CtxCTL
	case KindLTL, KindPSL:
		ctx = semcheck.CtxLTL
	case KindInvar:
		ctx = semcheck.CtxInvarSpec
	case KindCompute:
		ctx = semcheck.CtxCompute
	default:
		return -1, fmt.Errorf("%w: %v", ErrBadKind, kind)
	}

	if err := db.sem.CheckProperty(expr, ctx); err != nil {
		return -1, err
	}

	p := &Property{
		Index:   len(db.props),
		Expr:    expr,
		Kind:    kind,
		Status:  StatusUnchecked,
		TraceID: -1,
	}
	db.props = append(db.props, p)

	return p.Index, nil
}

// Reset returns the property to Unchecked, dropping its result, trace
// reference and lazily built FSM, so a later Verify re-runs it.
func (db *DB) Reset(index int) error {
	p, err := db.Get(index)
	if err != nil {
		return err
	}
	p.Status = StatusUnchecked
	p.TraceID = -1
	p.Number = ctl.Distance{}
	p.lowered = KindNoType
	p.cone = nil
	if p.local != nil {
		p.local.destroy()
		p.local = nil
	}

	return nil
}

// modelEnv bundles one encoded BDD universe and the FSM compiled in it.
type modelEnv struct {
	idx   *bdd.Indexer
	mgr   *bdd.Manager
	enc   *bdd.Encoder
	fsm   *fsm.BDDFSM
	names []string
}

func (e *modelEnv) destroy() {
	if e.fsm != nil {
		e.fsm.Destroy()
	}
}

// buildEnv compiles sexp into a fresh manager over names.
func (db *DB) buildEnv(sexp *fsm.SexpFSM, names []string) (*modelEnv, error) {
	if !db.reg.Encoded() {
		if err := db.reg.EncodeVars(); err != nil {
			return nil, err
		}
	}
	idx, err := bdd.IndexNames(db.reg, names)
	if err != nil {
		return nil, err
	}
	mgr := bdd.NewManager(idx.NumVars())
	enc := bdd.NewEncoder(db.in, db.reg, idx, mgr)
	f, err := fsm.Build(db.in, sexp, enc, mgr, idx, db.method)
	if err != nil {
		return nil, err
	}

	return &modelEnv{idx: idx, mgr: mgr, enc: enc, fsm: f, names: names}, nil
}

// envFor returns the FSM environment a property is verified against: the
// shared whole-model environment, or — with cone-of-influence on — a
// per-property environment over the property's variable cone, built once
// and cached on the record.
func (db *DB) envFor(p *Property) (*modelEnv, *fsm.SexpFSM, []string, error) {
	if !db.useCOI {
		if db.shared == nil {
			env, err := db.buildEnv(db.sx, db.names)
			if err != nil {
				return nil, nil, nil, err
			}
			db.shared = env
		}

		return db.shared, db.sx, db.names, nil
	}

	if p.local == nil {
		p.cone = coi.ComputeCone(db.in, db.reg, db.sx, p.Expr)
		restricted := p.cone.Restrict(db.in, db.reg, db.sx)
		names := make([]string, 0, len(db.names))
		for _, n := range db.names {
			if p.cone.Contains(n) {
				names = append(names, n)
			}
		}
		env, err := db.buildEnv(restricted, names)
		if err != nil {
			return nil, nil, nil, err
		}
		env.names = names
		p.local = env
		p.localSexp = restricted
	}

	return p.local, p.localSexp, p.local.names, nil
}
