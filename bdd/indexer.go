package bdd

import (
	"errors"
	"sort"

	"github.com/katalvlaran/nuxlite/registry"
)

// ErrNotEncoded indicates an Indexer was built from a registry that has not
// run EncodeVars yet.
var ErrNotEncoded = errors.New("bdd: registry has not been encoded")

// Indexer maps each encoded registry bit to a pair of BDD variable indices:
// a current-state index and, for state-variable bits only, a next-state
// index. Input-variable bits have no next-state counterpart.
type Indexer struct {
	reg   *registry.Registry
	curr  map[registry.Bit]int
	next  map[registry.Bit]int
	order []registry.Bit
	total int
}

// IndexNames builds an Indexer from an explicit, caller-supplied list of
// variable names (state and input). session constructs it this way because
// it already knows every name it declared, in declaration order, before
// calling EncodeVars; registry itself exposes no position→name iterator,
// so the name list is the indexer's only way to recover the variable set.

func IndexNames(reg *registry.Registry, names []string) (*Indexer, error) {
	if !reg.Encoded() {
		return nil, ErrNotEncoded
	}

	type owned struct {
		pos int
		v   registry.Variable
	}
	vars := make([]owned, 0, len(names))
	for _, name := range names {
		v, ok := reg.Variable(name)
		if !ok {
			continue
		}
		vars = append(vars, owned{pos: v.Position, v: v})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].pos < vars[j].pos })

	idx := &Indexer{reg: reg, curr: make(map[registry.Bit]int), next: make(map[registry.Bit]int)}
	for _, ov := range vars {
		for _, b := range ov.v.Bits {
			idx.curr[b] = len(idx.order)
			idx.order = append(idx.order, b)
		}
	}
	nextBase := len(idx.order)
	for _, ov := range vars {
		if ov.v.Kind != registry.KindState {
			continue
		}
		for _, b := range ov.v.Bits {
			idx.next[b] = nextBase
			nextBase++
		}
	}
	idx.total = nextBase

	return idx, nil
}

// NumVars reports how many BDD variable slots this indexer uses (current +
// next-state), the size a Manager built for it must have.
func (idx *Indexer) NumVars() int { return idx.total }

// Current returns bit's current-state BDD variable index.
func (idx *Indexer) Current(b registry.Bit) (int, bool) {
	v, ok := idx.curr[b]

	return v, ok
}

// Next returns bit's next-state BDD variable index, if bit belongs to a
// state variable.
func (idx *Indexer) Next(b registry.Bit) (int, bool) {
	v, ok := idx.next[b]

	return v, ok
}

// CurrentToNextMapping returns the var-index renaming Manager.Rename needs
// to move a BDD from the current-state frame into the next-state frame.
func (idx *Indexer) CurrentToNextMapping() map[int]int {
	m := make(map[int]int, len(idx.next))
	for b, cur := range idx.curr {
		if nxt, ok := idx.next[b]; ok {
			m[cur] = nxt
		}
	}

	return m
}

// NextToCurrentMapping is the inverse of CurrentToNextMapping.
func (idx *Indexer) NextToCurrentMapping() map[int]int {
	m := make(map[int]int, len(idx.next))
	for b, nxt := range idx.next {
		m[nxt] = idx.curr[b]
	}

	return m
}

// StateVarIndices returns every current-state BDD variable index belonging
// to a state variable (used to quantify inputs away, or vice versa).
func (idx *Indexer) StateVarIndices() []int {
	var out []int
	for b, cur := range idx.curr {
		if _, isState := idx.next[b]; isState {
			out = append(out, cur)
		}
	}
	sort.Ints(out)

	return out
}

// InputVarIndices returns every current-state BDD variable index belonging
// to an input variable.
func (idx *Indexer) InputVarIndices() []int {
	state := make(map[int]bool)
	for _, v := range idx.StateVarIndices() {
		state[v] = true
	}
	var out []int
	for _, cur := range idx.curr {
		if !state[cur] {
			out = append(out, cur)
		}
	}
	sort.Ints(out)

	return out
}

// NextVarIndices returns every next-state BDD variable index.
func (idx *Indexer) NextVarIndices() []int {
	out := make([]int, 0, len(idx.next))
	for _, v := range idx.next {
		out = append(out, v)
	}
	sort.Ints(out)

	return out
}

// Order returns the bits in ascending current-index order (the ordering
// write_order dumps).
func (idx *Indexer) Order() []registry.Bit { return idx.order }
