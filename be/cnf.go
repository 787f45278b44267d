package be

import "github.com/bits-and-blooms/bitset"

// CNF is the triple (clauses, variables, output literal) Tseitin conversion
// produces: clauses over positive DIMACS-style variable ids (negation is the
// sign of the int literal, the usual DIMACS convention), the number of
// distinct variables introduced, and the literal that evaluates to true iff
// the original BE node does.
type CNF struct {
	Clauses [][]int
	NumVars int
	Output  int
	// VarMap maps every TagVar BE node (a genuine circuit variable, never a
	// Tseitin auxiliary introduced for an AND/OR/XOR node) reachable from the
	// conversion root to its DIMACS variable id — the "cnf_model_to_be_model"
	// projection back to the BE layer, used by package bmc/trace to read a
	// SAT model back at the BE layer.
	VarMap map[ID]int
}

// tseitin assigns one fresh DIMACS variable per distinct BE node reachable
// from the root (memoized), emitting the defining clauses for each
// connective, and tracks the running variable counter so repeated calls
// against the same cnfBuilder keep extending one variable space (the shape
// sat.Facade needs to add several CNFs into one solver instance).
type cnfBuilder struct {
	nextVar int
	lit     map[ID]int // BE node -> DIMACS variable (always positive)
	clauses [][]int
	varMap  map[ID]int // TagVar BE node -> DIMACS variable, the subset of lit worth projecting back
}

func newCNFBuilder(startVar int) *cnfBuilder {
	return &cnfBuilder{nextVar: startVar, lit: make(map[ID]int), varMap: make(map[ID]int)}
}

func (b *cnfBuilder) fresh() int {
	b.nextVar++

	return b.nextVar
}

func (b *cnfBuilder) emit(lits ...int) {
	b.clauses = append(b.clauses, append([]int(nil), lits...))
}

// litOf returns the signed DIMACS literal for BE node id, defining it (and
// recursively its children) on first encounter.
func (b *cnfBuilder) litOf(m *Manager, id ID) int {
	if id == True {
		return b.trueVar(m)
	}
	if id == False {
		return -b.trueVar(m)
	}
	if v, ok := b.lit[id]; ok {
		return v
	}

	n, _ := m.Get(id)
	switch n.tag {
	case TagVar:
		v := b.fresh()
		b.lit[id] = v
		b.varMap[id] = v

		return v
	case TagNot:
		// A NOT node needs no fresh variable of its own: its literal is
		// simply the negation of its operand's literal.
		return -b.litOf(m, n.left)
	case TagAnd:
		a := b.litOf(m, n.left)
		c := b.litOf(m, n.right)
		v := b.fresh()
		b.lit[id] = v
		// v <-> a & c
		b.emit(-v, a)
		b.emit(-v, c)
		b.emit(v, -a, -c)

		return v
	case TagOr:
		a := b.litOf(m, n.left)
		c := b.litOf(m, n.right)
		v := b.fresh()
		b.lit[id] = v
		// v <-> a | c
		b.emit(v, -a)
		b.emit(v, -c)
		b.emit(-v, a, c)

		return v
	case TagXor:
		a := b.litOf(m, n.left)
		c := b.litOf(m, n.right)
		v := b.fresh()
		b.lit[id] = v
		// v <-> a xor c
		b.emit(-v, a, c)
		b.emit(-v, -a, -c)
		b.emit(v, a, -c)
		b.emit(v, -a, c)

		return v
	}

	return 0
}

// trueVar lazily allocates (and unit-asserts) a single DIMACS variable
// standing for the BE constant True, shared by every True/False leaf this
// builder encounters.
func (b *cnfBuilder) trueVar(m *Manager) int {
	const trueKey = ID(0) // True/False are never real arena IDs, so 0 is a safe sentinel key here
	if v, ok := b.lit[trueKey]; ok {
		return v
	}
	v := b.fresh()
	b.lit[trueKey] = v
	b.emit(v)

	return v
}

// ConvertToCNF performs Tseitin conversion of id, returning the CNF triple
// evaluates to true iff the BE does. Each call starts a fresh variable space at 1; to build
// up one solver's variable space across several CNFs (e.g. BMC's per-k
// unrolling), use ConvertToCNFFrom instead.
func (m *Manager) ConvertToCNF(id ID) CNF {
	return m.ConvertToCNFFrom(id, 0)
}

// ConvertToCNFFrom is ConvertToCNF but starts fresh variable numbering after
// startVar, for callers accumulating multiple CNFs into one variable space.
func (m *Manager) ConvertToCNFFrom(id ID, startVar int) CNF {
	b := newCNFBuilder(startVar)
	out := b.litOf(m, id)

	return CNF{Clauses: b.clauses, NumVars: b.nextVar - startVar, Output: out, VarMap: b.varMap}
}

// VarSet returns the set of DIMACS variable ids c's clauses mention, as a
// bitset.BitSet — the natural dense representation for a CNF's "triple
// (clauses, variables, output literal)" calls for, used by sat.Facade to
// test variable membership in O(1) instead of scanning clauses.
func (c CNF) VarSet() *bitset.BitSet {
	bs := bitset.New(uint(c.NumVars) + 1)
	for _, clause := range c.Clauses {
		for _, lit := range clause {
			v := lit
			if v < 0 {
				v = -v
			}
			bs.Set(uint(v))
		}
	}

	return bs
}
