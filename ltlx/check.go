package ltlx

import (
	"github.com/katalvlaran/nuxlite/bdd"
	"github.com/katalvlaran/nuxlite/ctl"
	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/fsm"
	"github.com/katalvlaran/nuxlite/registry"
	"github.com/katalvlaran/nuxlite/trace"
	"github.com/sirupsen/logrus"
)

// Checker runs the full LTL pipeline over one interner and
// registry: rewrite, tableau, composition, decision and cleanup.
type Checker struct {
	In  *dagexpr.Interner
	Reg *registry.Registry
	Log logrus.FieldLogger
}

// New returns a Checker, logging diagnostics to log or to a no-op logger
// when log is nil.
func New(in *dagexpr.Interner, reg *registry.Registry, log logrus.FieldLogger) *Checker {
	if log == nil {
		l := logrus.New()
		l.SetOutput(nilWriter{})
		log = l
	}

	return &Checker{In: in, Reg: reg, Log: log}
}

type nilWriter struct{}

func (nilWriter) Write(p []byte) (int, error) { return len(p), nil }

// Outcome is the decision for one LTL property: Holds, or a lasso-shaped
// counterexample trace.
type Outcome struct {
	Holds bool
	Trace *trace.Trace
}

// Check decides whether every fair path of sx satisfies phi. varNames is
// the declaration-order list of the model's state and input variable names
// (the same list the model's own Indexer was built from); method is the
// partitioning the model FSM currently uses — the tableau product is always
// rebuilt with it, never with a cached method.
//
// The registry is pushed on entry and popped on every exit path, so the
// rewrite's capture variables and the tableau's elementary variables are
// discarded once the property is decided.
func (c *Checker) Check(sx *fsm.SexpFSM, varNames []string, phi dagexpr.ID, method fsm.PartitionMethod, opts ...fsm.BuildOption) (Outcome, error) {
	c.Reg.PushStatus()
	defer func() { _ = c.Reg.PopStatus() }()
	c.Reg.InvalidateEncoding()

	rw, err := RewriteInputs(c.In, c.Reg, phi)
	if err != nil {
		return Outcome{}, err
	}

	names := append([]string(nil), varNames...)
	modelTrans := sx.Trans
	for _, b := range rw.Bindings {
		if err := c.Reg.DeclareStateVar(b.Fresh, b.Range); err != nil {
			return Outcome{}, err
		}
		names = append(names, b.Fresh)
		modelTrans = c.In.Intern(dagexpr.TagAnd, modelTrans, CaptureConstraint(c.In, b), 0)
	}

	neg, err := dagexpr.NNF(c.In, rw.Expr, true)
	if err != nil {
		return Outcome{}, err
	}
	tab, err := BuildTableau(c.In, neg)
	if err != nil {
		return Outcome{}, err
	}
	for _, v := range tab.Vars {
		if err := c.Reg.DeclareStateVar(v, registry.Range{Values: []string{"FALSE", "TRUE"}}); err != nil {
			return Outcome{}, err
		}
		names = append(names, v)
	}

	if err := c.Reg.EncodeVars(); err != nil {
		return Outcome{}, err
	}
	idx, err := bdd.IndexNames(c.Reg, names)
	if err != nil {
		return Outcome{}, err
	}
	mgr := bdd.NewManager(idx.NumVars())
	enc := bdd.NewEncoder(c.In, c.Reg, idx, mgr)

	msx := *sx
	msx.Trans = modelTrans

	product, err := fsm.Build(c.In, &msx, enc, mgr, idx, method, opts...)
	if err != nil {
		return Outcome{}, err
	}
	defer product.Destroy()

	tabFSM, err := fsm.Build(c.In, tab.FSM, enc, mgr, idx, method, opts...)
	if err != nil {
		return Outcome{}, err
	}
	product.ApplySynchronousProduct(tabFSM)

	ck := ctl.New(product, c.Log)
	fair := ck.FairStates()
	initInvar := mgr.And(product.Init, product.Invar)
	feasible := mgr.And(initInvar, fair)
	mgr.Deref(initInvar)
	defer mgr.Deref(feasible)

	if feasible == mgr.False() {
		mgr.Deref(fair)

		return Outcome{Holds: true}, nil
	}

	c.Log.WithField("tableau_vars", len(tab.Vars)).Debug("ltlx: fair counterexample path exists")

	seed, ok := product.SingleStateCube(feasible)
	if !ok {
		mgr.Deref(fair)

		return Outcome{}, ErrNoWitness
	}
	defer mgr.Deref(seed)

	var tr *trace.Trace
	if len(product.Compassion) > 0 {
		tr, err = c.witness(product, seed, fair)
	} else {
		tr, err = c.explain(product, seed, fair)
	}
	mgr.Deref(fair)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Holds: false, Trace: tr}, nil
}
