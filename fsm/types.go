package fsm

import (
	"github.com/katalvlaran/nuxlite/bdd"
	"github.com/katalvlaran/nuxlite/dagexpr"
)

// PartitionMethod selects how Build factors the transition relation,
// a single BDD (monolithic) or as a conjunction of factors
// (partitioned). Clustering algorithms — threshold and Iwls95 — group
// factors by a quantifier schedule.
type PartitionMethod int

const (
	// Monolithic keeps trans as one BDD.
	Monolithic PartitionMethod = iota
	// Threshold groups adjacent top-level conjuncts until a node-count
	// budget is exceeded, then starts a new cluster.
	Threshold
	// Iwls95 groups conjuncts by ascending support size, so factors that
	// mention fewer (and thus earlier-quantifiable) variables are combined
	// first — a simplified stand-in for the IWLS'95 clustering heuristic.
	Iwls95
)

// String renders m for diagnostics.
func (m PartitionMethod) String() string {
	switch m {
	case Monolithic:
		return "monolithic"
	case Threshold:
		return "threshold"
	case Iwls95:
		return "iwls95"
	default:
		return "unknown"
	}
}

// SexpFSM is the pair (init, invar, trans, input, justice, compassion) in
// expression form. Trans may refer to both current- and
// next-state atoms (next-state atoms are wrapped in dagexpr.TagNext).
type SexpFSM struct {
	Init, Invar, Trans, Input dagexpr.ID
	Justice                   []dagexpr.ID
	Compassion                [][2]dagexpr.ID
}

// NewSexpFSM builds a SexpFSM from its six components.
func NewSexpFSM(init, invar, trans, input dagexpr.ID, justice []dagexpr.ID, compassion [][2]dagexpr.ID) *SexpFSM {
	return &SexpFSM{Init: init, Invar: invar, Trans: trans, Input: input, Justice: justice, Compassion: compassion}
}

// Layering is the distance-indexed forward-reachability frontier sequence
// counterexample extraction requires: Layers[i] holds exactly the states first
// reached at distance i (Sᵢ \ ∪_{j<i}Sⱼ), used by trace.SynthesizePath for
// shortest-path counterexample extraction.
type Layering struct {
	Layers []bdd.ID
}

// Reachable is the cached result of ReachableStates: the union of every
// layer, plus the layering itself.
type Reachable struct {
	Set      bdd.ID
	Layering Layering
}

// BDDFSM is the BDD-compiled counterpart of a SexpFSM: init/invar BDDs, a
// partitioned transition relation, and lazily-computed reachable/fair-state
// caches.
type BDDFSM struct {
	Enc    *bdd.Encoder
	Mgr    *bdd.Manager
	Idx    *bdd.Indexer
	Method PartitionMethod

	Init  bdd.ID
	Invar bdd.ID
	Trans []bdd.ID // conjunctive factors; Monolithic always has exactly one

	Justice    []bdd.ID
	Compassion [][2]bdd.ID

	reachable *Reachable
	fair      bdd.ID
	fairSet   bool
}
