package fsm

import (
	"github.com/katalvlaran/nuxlite/bdd"
	"github.com/katalvlaran/nuxlite/dagexpr"
)

// BuildOption configures Build, the functional-options shape used throughout
// nuxlite.
type BuildOption func(*buildConfig)

type buildConfig struct {
	thresholdSize int
}

// WithThresholdSize sets the node-count budget Threshold partitioning uses
// before starting a new cluster. Without this option the budget is 64.
func WithThresholdSize(n int) BuildOption {
	return func(c *buildConfig) { c.thresholdSize = n }
}

func newBuildConfig(opts []BuildOption) buildConfig {
	c := buildConfig{thresholdSize: 64}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// Build compiles a SexpFSM into a BDDFSM against enc's registry/indexer,
// evaluating init and invar directly and the transition relation's top-level
// conjuncts into one BDD factor each, then clustering those factors per
// method.
func Build(in *dagexpr.Interner, sx *SexpFSM, enc *bdd.Encoder, mgr *bdd.Manager, idx *bdd.Indexer, method PartitionMethod, opts ...BuildOption) (*BDDFSM, error) {
	cfg := newBuildConfig(opts)

	initBDD, err := enc.ExprToBDD(sx.Init)
	if err != nil {
		return nil, err
	}
	invarBDD, err := enc.ExprToBDD(sx.Invar)
	if err != nil {
		mgr.Deref(initBDD)

		return nil, err
	}

	// Non-power-of-two ranges leave unused bit patterns; the state mask
	// folds into invar so no spurious state ever satisfies it, and the
	// input mask joins the transition factors so no spurious input ever
	// drives a transition.
	stateMask, err := enc.StateMask()
	if err != nil {
		mgr.Deref(initBDD)
		mgr.Deref(invarBDD)

		return nil, err
	}
	masked := mgr.And(invarBDD, stateMask)
	mgr.Deref(invarBDD)
	mgr.Deref(stateMask)
	invarBDD = masked

	conjuncts := splitConjuncts(in, sx.Trans)
	factors := make([]bdd.ID, 0, len(conjuncts))
	for _, c := range conjuncts {
		f, err := enc.ExprToBDD(c)
		if err != nil {
			mgr.Deref(initBDD)
			mgr.Deref(invarBDD)
			for _, g := range factors {
				mgr.Deref(g)
			}

			return nil, err
		}
		factors = append(factors, f)
	}

	inputMask, err := enc.InputMask()
	if err != nil {
		mgr.Deref(initBDD)
		mgr.Deref(invarBDD)
		for _, g := range factors {
			mgr.Deref(g)
		}

		return nil, err
	}
	if inputMask != mgr.True() {
		factors = append(factors, inputMask)
	} else {
		mgr.Deref(inputMask)
	}

	clustered := cluster(mgr, factors, method, cfg.thresholdSize)

	justice := make([]bdd.ID, 0, len(sx.Justice))
	for _, j := range sx.Justice {
		b, err := enc.ExprToBDD(j)
		if err != nil {
			return nil, err
		}
		justice = append(justice, b)
	}

	compassion := make([][2]bdd.ID, 0, len(sx.Compassion))
	for _, pair := range sx.Compassion {
		p, err := enc.ExprToBDD(pair[0])
		if err != nil {
			return nil, err
		}
		q, err := enc.ExprToBDD(pair[1])
		if err != nil {
			return nil, err
		}
		compassion = append(compassion, [2]bdd.ID{p, q})
	}

	return &BDDFSM{
		Enc: enc, Mgr: mgr, Idx: idx, Method: method,
		Init: initBDD, Invar: invarBDD, Trans: clustered,
		Justice: justice, Compassion: compassion,
	}, nil
}

// splitConjuncts flattens a right- or left-leaning TagAnd chain into its
// leaf conjuncts; a non-AND root is treated as a single conjunct.
func splitConjuncts(in *dagexpr.Interner, id dagexpr.ID) []dagexpr.ID {
	n, ok := in.Get(id)
	if !ok || n.Tag != dagexpr.TagAnd {
		return []dagexpr.ID{id}
	}

	return append(splitConjuncts(in, n.Left), splitConjuncts(in, n.Right)...)
}

// TransRelation returns the monolithic conjunction of every transition
// factor, for operations (StatesToStatesGetInputs, check_machine) that need
// the whole relation at once regardless of how Build partitioned it.
func (fsm *BDDFSM) TransRelation() bdd.ID {
	acc := fsm.Mgr.Ref(fsm.Mgr.True())
	for _, f := range fsm.Trans {
		next := fsm.Mgr.And(acc, f)
		fsm.Mgr.Deref(acc)
		acc = next
	}

	return acc
}

// Destroy releases every BDD handle this FSM owns, the lifecycle
// contract ("destroying an FSM releases all its internal BDDs").
func (fsm *BDDFSM) Destroy() {
	fsm.Mgr.Deref(fsm.Init)
	fsm.Mgr.Deref(fsm.Invar)
	for _, f := range fsm.Trans {
		fsm.Mgr.Deref(f)
	}
	for _, j := range fsm.Justice {
		fsm.Mgr.Deref(j)
	}
	for _, p := range fsm.Compassion {
		fsm.Mgr.Deref(p[0])
		fsm.Mgr.Deref(p[1])
	}
	if fsm.reachable != nil {
		fsm.Mgr.Deref(fsm.reachable.Set)
		for _, l := range fsm.reachable.Layering.Layers {
			fsm.Mgr.Deref(l)
		}
	}
	if fsm.fairSet {
		fsm.Mgr.Deref(fsm.fair)
	}
}
