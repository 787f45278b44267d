package coi

import (
	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/fsm"
	"github.com/katalvlaran/nuxlite/registry"
)

// Closure computes the fixpoint closure of seeds over g: starting from the
// seed variable set, repeatedly pull in every neighbor of a variable already
// in the set until nothing new appears, as a queue-based level walk
// adapted to a string-keyed graph with no distance tracking —
// a cone has no notion of "how far", only "in or out".
func Closure(g *Graph, seeds []string) []string {
	visited := make(map[string]bool, len(seeds))
	queue := make([]string, 0, len(seeds))

	for _, s := range seeds {
		if !visited[s] {
			visited[s] = true
			queue = append(queue, s)
		}
	}

	for i := 0; i < len(queue); i++ {
		for _, nb := range g.Neighbors(queue[i]) {
			if !visited[nb] {
				visited[nb] = true
				queue = append(queue, nb)
			}
		}
	}

	return queue
}

// ComputeCone builds the variable-dependency graph of sx and returns the
// Cone reachable from propExpr's free variables — the one-call convenience
// a property check runs once per property before invoking its model
// checker.
func ComputeCone(in *dagexpr.Interner, reg *registry.Registry, sx *fsm.SexpFSM, propExpr dagexpr.ID) *Cone {
	g := BuildGraph(in, reg, sx)
	seeds := SeedVars(in, reg, propExpr)

	return New(Closure(g, seeds))
}
