package bmc

import (
	"github.com/katalvlaran/nuxlite/sat"
	"github.com/katalvlaran/nuxlite/trace"
)

// LoopbackMode selects which loopback regime H.1 encodes against: a single
// fixed cycle point, every candidate cycle point disjunctively (with the
// satisfying one recovered from the model afterward), or a bounded finite
// prefix with no cycle identity at all.
type LoopbackMode int

const (
	NoLoop LoopbackMode = iota
	SingleLoop
	AllLoops
)

// String renders m for diagnostics.
func (m LoopbackMode) String() string {
	switch m {
	case NoLoop:
		return "no-loop"
	case SingleLoop:
		return "single-loop"
	case AllLoops:
		return "all-loops"
	default:
		return "unknown"
	}
}

// Config bounds one CheckLTL run. When Increasing is set, k ranges over
// [KMin, KMax]; otherwise it is tried only at KMax (k_min
// (0 if increasing, else k) to k_max = k). L is the single-loop index
// (SingleLoop mode only); a negative L is the relative encoding -(k-l)
// -(k-l), translated to an absolute index per k inside CheckLTL.
type Config struct {
	KMin, KMax int
	Increasing bool
	Mode       LoopbackMode
	L          int
}

// Result is the outcome of one BMC or k-induction step/base check at a
// settled k.
type Result struct {
	Status sat.Status
	K      int
	Loop   int // -1 if the trace carries no loopback
	Trace  *trace.Trace
}

// InvariantResult is the outcome of a full KInduction run.
type InvariantResult struct {
	Holds bool
	K     int
	Trace *trace.Trace // populated only when !Holds (a Base(k) counterexample)
}
