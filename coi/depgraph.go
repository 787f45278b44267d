package coi

import (
	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/fsm"
	"github.com/katalvlaran/nuxlite/registry"
)

// collectVars walks expr recursively, adding every state/input variable
// atom it references into out; a reference to a define expands into the
// define's body (memoized per call via seenDefines, to tolerate — but not
// loop forever on — a define that turns out to be circular; semcheck is
// the component responsible for rejecting that case outright).
func collectVars(in *dagexpr.Interner, reg *registry.Registry, expr dagexpr.ID, out, seenDefines map[string]bool) {
	if expr == dagexpr.Empty {
		return
	}
	n, ok := in.Get(expr)
	if !ok {
		return
	}

	switch n.Tag {
	case dagexpr.TagAtom:
		name := n.Atom
		if reg.IsSymbolVar(name) {
			out[name] = true

			return
		}
		if reg.IsDefine(name) {
			if seenDefines[name] {
				return
			}
			seenDefines[name] = true
			if body, err := reg.GetDefineBody(name); err == nil {
				collectVars(in, reg, body, out, seenDefines)
			}
		}

		return
	case dagexpr.TagNumber, dagexpr.TagTrue, dagexpr.TagFalse, dagexpr.TagSelf:
		return
	default:
		collectVars(in, reg, n.Left, out, seenDefines)
		collectVars(in, reg, n.Right, out, seenDefines)
	}
}

// splitConjuncts flattens a TagAnd chain into its leaf conjuncts, mirroring
// package fsm's unexported helper of the same name (kept duplicated rather
// than exported across the package boundary since the two packages apply
// it to different purposes — factor clustering there, dependency cliques
// here — and the function is a three-line tree walk, not shared state).
func splitConjuncts(in *dagexpr.Interner, id dagexpr.ID) []dagexpr.ID {
	if id == dagexpr.Empty {
		return nil
	}
	n, ok := in.Get(id)
	if !ok || n.Tag != dagexpr.TagAnd {
		return []dagexpr.ID{id}
	}

	return append(splitConjuncts(in, n.Left), splitConjuncts(in, n.Right)...)
}

// BuildGraph builds the variable-dependency graph of sx: one clique per
// init/invar/trans conjunct and one clique per justice/compassion formula
// (a variable v is in the cone if some variable already in
// the cone depends on v in any of invar, init, trans, or the
// justice/compassion expressions).
func BuildGraph(in *dagexpr.Interner, reg *registry.Registry, sx *fsm.SexpFSM) *Graph {
	g := NewGraph()

	addConjuncts := func(expr dagexpr.ID) {
		for _, c := range splitConjuncts(in, expr) {
			vars := make(map[string]bool)
			collectVars(in, reg, c, vars, make(map[string]bool))
			g.addClique(vars)
		}
	}

	addConjuncts(sx.Init)
	addConjuncts(sx.Invar)
	addConjuncts(sx.Trans)

	for _, j := range sx.Justice {
		vars := make(map[string]bool)
		collectVars(in, reg, j, vars, make(map[string]bool))
		g.addClique(vars)
	}
	for _, pair := range sx.Compassion {
		vars := make(map[string]bool)
		collectVars(in, reg, pair[0], vars, make(map[string]bool))
		collectVars(in, reg, pair[1], vars, make(map[string]bool))
		g.addClique(vars)
	}

	return g
}

// SeedVars returns the variable names a property formula references
// directly — the V0 seed set the closure starts from.
func SeedVars(in *dagexpr.Interner, reg *registry.Registry, propExpr dagexpr.ID) []string {
	vars := make(map[string]bool)
	collectVars(in, reg, propExpr, vars, make(map[string]bool))

	out := make([]string, 0, len(vars))
	for v := range vars {
		out = append(out, v)
	}

	return out
}
