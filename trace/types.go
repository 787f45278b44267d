package trace

// Kind distinguishes how a trace was produced, the "kind ∈ {CounterExample,
// Simulation}" of the trace handoff.
type Kind int

const (
	KindCounterExample Kind = iota
	KindSimulation
)

// String renders k the way it appears in reports.
func (k Kind) String() string {
	switch k {
	case KindCounterExample:
		return "CounterExample"
	case KindSimulation:
		return "Simulation"
	default:
		return "Unknown"
	}
}

// Cube is a total assignment to one frame's variables, "name = value" pairs
// — the decoded form of a BDD/BE cube.
type Cube map[string]string

// Trace is a finite non-empty sequence of states interleaved with inputs: state₀ (input₁ state₁) (input₂ state₂) … (inputₙ stateₙ).
// len(States) == len(Inputs)+1 always; Inputs[i] is the input cube driving
// the transition States[i] -> States[i+1]. Loopback, when non-nil, names
// the index l (0 <= l <= len(States)-1) that the last state is identified
// with, giving the trace a lasso shape.
type Trace struct {
	Kind     Kind
	States   []Cube
	Inputs   []Cube
	Loopback *int
}

// Len returns the number of states in the trace.
func (t *Trace) Len() int { return len(t.States) }
