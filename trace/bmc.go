package trace

import (
	"github.com/katalvlaran/nuxlite/be"
	"github.com/katalvlaran/nuxlite/registry"
	"github.com/katalvlaran/nuxlite/sat"
)

// DecodeBMCModel reconstructs the state-input-state sequence a BMC
// unrolling's SAT model describes: "convert the CNF
// model to a BE model, interpret bit assignments over (variable, time)
// pairs, pack each time index into a state-input-state tuple." k is the
// unrolling bound (Path(k) has k+1 state frames, times 0..k); loop is the
// loopback time index if the model came from a loop encoding, or -1 for a
// no-loop trace.
func DecodeBMCModel(mgr *be.Manager, cnf be.CNF, model sat.Assignment, reg *registry.Registry, k, loop int) *Trace {
	type frame struct {
		state map[string][]bool
		input map[string][]bool
	}
	frames := make([]frame, k+1)
	for i := range frames {
		frames[i] = frame{state: make(map[string][]bool), input: make(map[string][]bool)}
	}

	for id, dvar := range cnf.VarMap {
		bit, class, t, ok := mgr.VarInfo(id)
		if !ok || t < 0 || t > k {
			continue
		}
		val := model[dvar]

		bucket := &frames[t].state
		if class == be.ClassInput {
			bucket = &frames[t].input
		}
		w := ensureLen((*bucket)[bit.Var], bit.Index+1)
		w[bit.Index] = val
		(*bucket)[bit.Var] = w
	}

	tr := &Trace{Kind: KindCounterExample}
	for i := 0; i <= k; i++ {
		tr.States = append(tr.States, cubeFromBits(reg, frames[i].state))
	}
	for i := 0; i < k; i++ {
		tr.Inputs = append(tr.Inputs, cubeFromBits(reg, frames[i].input))
	}
	if loop >= 0 {
		l := loop
		tr.Loopback = &l
	}

	return tr
}
