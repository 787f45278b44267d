package trace

import (
	"github.com/katalvlaran/nuxlite/bdd"
	"github.com/katalvlaran/nuxlite/fsm"
	"github.com/katalvlaran/nuxlite/registry"
)

// SynthesizePath reconstructs the shortest state-input-state sequence from
// an initial state to seed, BFS by layer — at step i,
// intersect the backward image of the current suffix head with the layer
// of distance-i states; pick one state deterministically; compute the
// input cube as states_to_states_get_inputs(previous, current) and pick
// one input. seed is a single-state cube already known to be reachable
// (typically a CTL/LTL fixpoint's witness); its distance is located via the
// FSM's cached reachability layering.
func SynthesizePath(f *fsm.BDDFSM, reg *registry.Registry, seed bdd.ID) (*Trace, error) {
	r := f.ReachableStates()
	d, ok := r.DistanceOf(f.Mgr, seed)
	if !ok {
		return nil, ErrUnreachable
	}

	states := make([]bdd.ID, d+1)
	states[d] = f.Mgr.Ref(seed)

	head := states[d]
	for i := d - 1; i >= 0; i-- {
		pred := f.BackwardImage(head)
		candidate := f.Mgr.And(pred, r.Layering.Layers[i])
		f.Mgr.Deref(pred)

		cube, ok := f.SingleStateCube(candidate)
		f.Mgr.Deref(candidate)
		if !ok {
			for _, s := range states[:i+1] {
				if s != 0 {
					f.Mgr.Deref(s)
				}
			}

			return nil, ErrNoPredecessor
		}
		states[i] = cube
		head = cube
	}

	t, err := buildCTLTrace(f, reg, states)
	for _, s := range states {
		f.Mgr.Deref(s)
	}

	return t, err
}

// FromStates decodes an explicit sequence of single-state BDD cubes into a
// Trace, filling in the input cube between each consecutive pair the same
// way SynthesizePath does. Package ltlx uses it to assemble a lasso witness
// whose suffix was found by a fair-cycle search rather than by the
// reachability layering; loopback, when non-nil, is the state index the
// final state is identified with.
func FromStates(f *fsm.BDDFSM, reg *registry.Registry, states []bdd.ID, loopback *int) (*Trace, error) {
	t, err := buildCTLTrace(f, reg, states)
	if err != nil {
		return nil, err
	}
	t.Loopback = loopback

	return t, nil
}

// buildCTLTrace decodes a sequence of single-state BDD cubes (current-state
// frame only) into a Trace, filling in the input cube between each
// consecutive pair via StatesToStatesGetInputs.
func buildCTLTrace(f *fsm.BDDFSM, reg *registry.Registry, states []bdd.ID) (*Trace, error) {
	t := &Trace{Kind: KindCounterExample}

	for i, s := range states {
		cube, err := f.Enc.PickOneState(s)
		if err != nil {
			return nil, err
		}
		named := make(Cube, len(cube))
		for k, v := range cube {
			named[k] = v
		}
		t.States = append(t.States, named)

		if i == 0 {
			continue
		}

		inBDD := f.StatesToStatesGetInputs(states[i-1], s)
		assign, ok := f.Mgr.PickOneMinterm(inBDD)
		f.Mgr.Deref(inBDD)
		if !ok {
			return nil, ErrNoInput
		}
		t.Inputs = append(t.Inputs, decodeInputCube(f.Idx, reg, assign))
	}

	return t, nil
}

// decodeInputCube projects a raw BDD variable-index assignment onto input
// variables and decodes each into its range value, the input-variable
// analogue of bdd.Encoder's unexported state-cube decoder.
func decodeInputCube(idx *bdd.Indexer, reg *registry.Registry, assign map[int]bool) Cube {
	byVar := make(map[string][]bool)
	inputIdx := make(map[int]bool)
	for _, v := range idx.InputVarIndices() {
		inputIdx[v] = true
	}

	for _, b := range idx.Order() {
		cur, ok := idx.Current(b)
		if !ok || !inputIdx[cur] {
			continue
		}
		w := ensureLen(byVar[b.Var], b.Index+1)
		w[b.Index] = assign[cur]
		byVar[b.Var] = w
	}

	return cubeFromBits(reg, byVar)
}
