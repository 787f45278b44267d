package be

// PermanentGroup is the one group name that Groups.Remove always refuses:
// the permanent group cannot be removed.
const PermanentGroup = "permanent"

// Groups tracks named clause groups and their frozen/removable status, plus
// group aliasing via a disjoint-set union (path compression + union by
// rank) so two groups can be merged into one canonical name.
type Groups struct {
	parent map[string]string
	rank   map[string]int
	frozen map[string]bool
}

// NewGroups returns a Groups with the permanent group already created and
// frozen.
func NewGroups() *Groups {
	g := &Groups{
		parent: make(map[string]string),
		rank:   make(map[string]int),
		frozen: make(map[string]bool),
	}
	g.Create(PermanentGroup)
	g.frozen[PermanentGroup] = true

	return g
}

// Create registers name as a new, unfrozen group if it does not already
// exist; re-creating an existing name is a no-op.
func (g *Groups) Create(name string) {
	if _, ok := g.parent[name]; ok {
		return
	}
	g.parent[name] = name
	g.rank[name] = 0
}

// Find returns the canonical name for a group after any Merge calls,
// compressing the path as it walks (same shape as Kruskal's find closure).
func (g *Groups) Find(name string) (string, bool) {
	if _, ok := g.parent[name]; !ok {
		return "", false
	}
	for g.parent[name] != name {
		g.parent[name] = g.parent[g.parent[name]]
		name = g.parent[name]
	}

	return name, true
}

// Merge unions a and b into one canonical group, by rank. The resulting
// canonical group is frozen iff either input was.
func (g *Groups) Merge(a, b string) {
	ra, ok := g.Find(a)
	if !ok {
		return
	}
	rb, ok := g.Find(b)
	if !ok {
		return
	}
	if ra == rb {
		return
	}

	frozen := g.frozen[ra] || g.frozen[rb]
	if g.rank[ra] < g.rank[rb] {
		g.parent[ra] = rb
		g.frozen[rb] = frozen
	} else {
		g.parent[rb] = ra
		g.frozen[ra] = frozen
		if g.rank[ra] == g.rank[rb] {
			g.rank[ra]++
		}
	}
}

// Freeze marks name's canonical group as frozen (must remain in the solver
// across multiple queries,).
func (g *Groups) Freeze(name string) {
	if root, ok := g.Find(name); ok {
		g.frozen[root] = true
	}
}

// IsFrozen reports whether name's canonical group is frozen.
func (g *Groups) IsFrozen(name string) bool {
	root, ok := g.Find(name)

	return ok && g.frozen[root]
}

// Remove deletes a non-frozen, non-permanent group, returning
// ErrPermanentGroup for the permanent group's canonical name or any frozen
// group, and ErrUnknownGroup for a name never created.
func (g *Groups) Remove(name string) error {
	root, ok := g.Find(name)
	if !ok {
		return ErrUnknownGroup
	}
	if root == PermanentGroup || g.frozen[root] {
		return ErrPermanentGroup
	}
	delete(g.parent, name)
	delete(g.rank, name)
	delete(g.frozen, name)

	return nil
}
