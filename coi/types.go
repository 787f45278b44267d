package coi

import (
	"sort"

	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/registry"
)

// Graph is an undirected variable-dependency graph: an edge (u, v) means u
// and v co-occur in some init/invar/trans conjunct or fairness formula, so
// one being in the cone pulls the other in too.
type Graph struct {
	adj map[string]map[string]bool
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{adj: make(map[string]map[string]bool)}
}

// addClique adds an edge between every distinct pair of names in vars.
func (g *Graph) addClique(vars map[string]bool) {
	names := make([]string, 0, len(vars))
	for v := range vars {
		names = append(names, v)
	}
	for _, a := range names {
		if g.adj[a] == nil {
			g.adj[a] = make(map[string]bool)
		}
		for _, b := range names {
			if a == b {
				continue
			}
			g.adj[a][b] = true
		}
	}
}

// Neighbors returns v's adjacent variable names, sorted.
func (g *Graph) Neighbors(v string) []string {
	out := make([]string, 0, len(g.adj[v]))
	for u := range g.adj[v] {
		out = append(out, u)
	}
	sort.Strings(out)

	return out
}

// Cone is the closed set of variables a formula's cone of influence
// contains, plus the FSM-restriction operation built on it.
type Cone struct {
	vars map[string]bool
}

// New wraps a variable-name set (typically Closure's output) as a Cone.
func New(names []string) *Cone {
	c := &Cone{vars: make(map[string]bool, len(names))}
	for _, n := range names {
		c.vars[n] = true
	}

	return c
}

// Contains reports whether name is in the cone.
func (c *Cone) Contains(name string) bool { return c.vars[name] }

// Names returns the cone's variable names, sorted.
func (c *Cone) Names() []string {
	out := make([]string, 0, len(c.vars))
	for n := range c.vars {
		out = append(out, n)
	}
	sort.Strings(out)

	return out
}

// allIn reports whether every symbol (or define, expanded transitively)
// referenced by expr lies inside the cone.
func (c *Cone) allIn(in *dagexpr.Interner, reg *registry.Registry, expr dagexpr.ID) bool {
	vars := make(map[string]bool)
	collectVars(in, reg, expr, vars, make(map[string]bool))
	for v := range vars {
		if !c.vars[v] {
			return false
		}
	}

	return true
}
