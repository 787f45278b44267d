package session

import (
	"errors"
	"io"

	"github.com/katalvlaran/nuxlite/bdd"
	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/fsm"
	"github.com/katalvlaran/nuxlite/propdb"
	"github.com/katalvlaran/nuxlite/registry"
	"github.com/katalvlaran/nuxlite/semcheck"
	"github.com/katalvlaran/nuxlite/trace"
	"github.com/sirupsen/logrus"
)

// ErrNoModel is returned by operations that need a model before SetModel
// has installed one.
var ErrNoModel = errors.New("session: no model has been set")

// Session owns one instance of every shared collaborator. All of its
// mutating operations must stay on one goroutine; the
// individual components keep their own locking so reads from a concurrent
// host remain safe.
type Session struct {
	in     *dagexpr.Interner
	reg    *registry.Registry
	log    *logrus.Logger
	traces *trace.Manager

	method   fsm.PartitionMethod
	ordering []string
	useCOI   bool
	kMax     int
	kInduct  bool
	solver   string

	names []string // declaration order of state+input variables
	sx    *fsm.SexpFSM
	props *propdb.DB

	env struct {
		idx *bdd.Indexer
		mgr *bdd.Manager
		enc *bdd.Encoder
		fsm *fsm.BDDFSM
	}
}

// Option configures a Session at New time.
type Option func(*Session)

// WithLogger substitutes the session logger; by default diagnostics are
// discarded — quiet unless asked.
func WithLogger(log *logrus.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithPartitionMethod selects how every FSM built by this session clusters
// its transition relation.
func WithPartitionMethod(m fsm.PartitionMethod) Option {
	return func(s *Session) { s.method = m }
}

// WithOrderingFile seeds the encoding order from a variable-ordering file's
// contents; names it lists come first, the rest follow in
// declaration order. Parsing happens at Encode time, once the declared
// variables are known.
func WithOrderingFile(contents string) Option {
	return func(s *Session) { s.ordering = []string{contents} }
}

// WithConeOfInfluence restricts each property's FSM to its variable cone.
func WithConeOfInfluence(on bool) Option {
	return func(s *Session) { s.useCOI = on }
}

// WithKInduction verifies INVAR properties by k-induction up to maxK.
func WithKInduction(maxK int) Option {
	return func(s *Session) { s.kInduct = true; s.kMax = maxK }
}

// WithSolver names the SAT backend used by SAT-based checks.
func WithSolver(name string) Option {
	return func(s *Session) { s.solver = name }
}

// New returns a Session with a fresh interner, registry and trace manager.
func New(opts ...Option) *Session {
	s := &Session{
		in:     dagexpr.NewInterner(),
		reg:    registry.New(),
		traces: trace.NewManager(),
		method: fsm.Threshold,
		solver: "dpll",
		kMax:   10,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.New()
		s.log.SetOutput(io.Discard)
	}

	return s
}

// Interner exposes the session's expression DAG.
func (s *Session) Interner() *dagexpr.Interner { return s.in }

// Registry exposes the session's variable registry.
func (s *Session) Registry() *registry.Registry { return s.reg }

// Logger exposes the session logger.
func (s *Session) Logger() *logrus.Logger { return s.log }

// Traces exposes the trace manager counterexamples are handed to.
func (s *Session) Traces() *trace.Manager { return s.traces }

// VarNames returns the session's state and input variables in declaration
// order — the list every Indexer in this session is built from.
func (s *Session) VarNames() []string { return append([]string(nil), s.names...) }

// DeclareStateVar declares a state variable, tracking declaration order.
func (s *Session) DeclareStateVar(name string, rng registry.Range) error {
	if err := s.reg.DeclareStateVar(name, rng); err != nil {
		return err
	}
	s.names = append(s.names, name)

	return nil
}

// DeclareInputVar declares an input variable, tracking declaration order.
func (s *Session) DeclareInputVar(name string, rng registry.Range) error {
	if err := s.reg.DeclareInputVar(name, rng); err != nil {
		return err
	}
	s.names = append(s.names, name)

	return nil
}

// DeclareDefine declares a define.
func (s *Session) DeclareDefine(name, context string, body dagexpr.ID) error {
	return s.reg.DeclareDefine(name, context, body)
}

// DeclareConstant declares a symbolic constant.
func (s *Session) DeclareConstant(name string) error {
	return s.reg.DeclareConstant(name)
}

// Encode lowers every declared variable to its bit vector, honoring the
// ordering file when one was supplied.
func (s *Session) Encode() error {
	if len(s.ordering) == 0 {
		return s.reg.EncodeVars()
	}
	order := registry.ParseOrderingFile(s.ordering[0], s.reg, s.log)

	return s.reg.EncodeVarsWithOrder(order)
}

// SetModel installs the flattened model, running the semantic checker's
// three passes first — a model that fails them is rejected
// and the previous model, if any, stays in place.
func (s *Session) SetModel(sx *fsm.SexpFSM) error {
	checker := semcheck.New(s.in, s.reg)
	model := semcheck.Model{
		Init:       sx.Init,
		Invar:      sx.Invar,
		Trans:      sx.Trans,
		Justice:    sx.Justice,
		Compassion: sx.Compassion,
	}
	if err := checker.CheckModel(model); err != nil {
		return err
	}

	s.sx = sx
	s.props = nil
	s.dropEnv()

	return nil
}

// Model returns the installed Sexp FSM.
func (s *Session) Model() (*fsm.SexpFSM, error) {
	if s.sx == nil {
		return nil, ErrNoModel
	}

	return s.sx, nil
}

// Properties returns the session's property database, created lazily
// against the current model with the session's verification options.
func (s *Session) Properties() (*propdb.DB, error) {
	if s.sx == nil {
		return nil, ErrNoModel
	}
	if s.props == nil {
		opts := []propdb.Option{
			propdb.WithLogger(s.log),
			propdb.WithTraceManager(s.traces),
			propdb.WithSolver(s.solver),
			propdb.WithConeOfInfluence(s.useCOI),
		}
		if s.kInduct {
			opts = append(opts, propdb.WithKInduction(s.kMax))
		}
		s.props = propdb.New(s.in, s.reg, s.sx, s.names, s.method, opts...)
	}

	return s.props, nil
}

// BuildBDDFSM compiles (and caches) the model's BDD FSM in the session's
// encoding; the returned FSM carries its Manager, Encoder and Indexer for
// direct use (reachability, check_machine, simulation fronts).
func (s *Session) BuildBDDFSM() (*fsm.BDDFSM, error) {
	if s.sx == nil {
		return nil, ErrNoModel
	}
	if s.env.fsm != nil {
		return s.env.fsm, nil
	}

	if !s.reg.Encoded() {
		if err := s.Encode(); err != nil {
			return nil, err
		}
	}
	idx, err := bdd.IndexNames(s.reg, s.names)
	if err != nil {
		return nil, err
	}
	mgr := bdd.NewManager(idx.NumVars())
	enc := bdd.NewEncoder(s.in, s.reg, idx, mgr)
	f, err := fsm.Build(s.in, s.sx, enc, mgr, idx, s.method)
	if err != nil {
		return nil, err
	}

	s.env.idx = idx
	s.env.mgr = mgr
	s.env.enc = enc
	s.env.fsm = f

	return f, nil
}

// dropEnv releases the cached BDD FSM; it is rebuilt on demand whenever the
// model changes.
func (s *Session) dropEnv() {
	if s.env.fsm != nil {
		s.env.fsm.Destroy()
	}
	s.env.idx = nil
	s.env.mgr = nil
	s.env.enc = nil
	s.env.fsm = nil
}

// Close releases every FSM the session built.
func (s *Session) Close() {
	s.dropEnv()
}
