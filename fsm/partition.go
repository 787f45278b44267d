package fsm

import (
	"sort"

	"github.com/katalvlaran/nuxlite/bdd"
)

// cluster groups factors per method into the resulting conjunctive factor
// list. It takes ownership of every ID in factors: each is either merged
// (and dereferenced) into an accumulator or becomes part of the returned
// list directly, so the net reference count factors held is preserved in
// the output.
func cluster(mgr *bdd.Manager, factors []bdd.ID, method PartitionMethod, thresholdSize int) []bdd.ID {
	if len(factors) == 0 {
		return []bdd.ID{mgr.Ref(mgr.True())}
	}

	switch method {
	case Monolithic:
		return []bdd.ID{conjoinAll(mgr, factors)}
	case Iwls95:
		return []bdd.ID{clusterBySupport(mgr, factors)}
	default: // Threshold
		return clusterByThreshold(mgr, factors, thresholdSize)
	}
}

// conjoinAll consumes factors and returns their single owned conjunction.
func conjoinAll(mgr *bdd.Manager, factors []bdd.ID) bdd.ID {
	acc := factors[0]
	for _, f := range factors[1:] {
		next := mgr.And(acc, f)
		mgr.Deref(acc)
		mgr.Deref(f)
		acc = next
	}

	return acc
}

// clusterByThreshold folds adjacent factors into a running accumulator,
// starting a fresh cluster whenever the accumulator's node count (Size)
// would exceed thresholdSize — the "group factors by ... a
// quantifier schedule", simplified to a node-count budget per cluster.
func clusterByThreshold(mgr *bdd.Manager, factors []bdd.ID, thresholdSize int) []bdd.ID {
	var out []bdd.ID
	acc := factors[0]
	for _, f := range factors[1:] {
		candidate := mgr.And(acc, f)
		if mgr.Size(candidate) > thresholdSize {
			mgr.Deref(candidate)
			out = append(out, acc)
			acc = f

			continue
		}
		mgr.Deref(acc)
		mgr.Deref(f)
		acc = candidate
	}
	out = append(out, acc)

	return out
}

// clusterBySupport sorts factors by ascending support size (fewer
// variables first) and folds them into a single cluster — a simplified
// stand-in for IWLS'95 early-quantification clustering: grouping
// small-support factors together tends to let a quantification schedule
// eliminate variables sooner, since a factor mentioning few variables is
// "ready" to conjoin-then-quantify earlier than one with broad support.
func clusterBySupport(mgr *bdd.Manager, factors []bdd.ID) bdd.ID {
	type scored struct {
		id   bdd.ID
		size int
	}
	ranked := make([]scored, len(factors))
	for i, f := range factors {
		ranked[i] = scored{id: f, size: len(mgr.Support(f))}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].size < ranked[j].size })

	acc := ranked[0].id
	for _, s := range ranked[1:] {
		next := mgr.And(acc, s.id)
		mgr.Deref(acc)
		mgr.Deref(s.id)
		acc = next
	}

	return acc
}
