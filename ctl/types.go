package ctl

import (
	"math"

	"github.com/katalvlaran/nuxlite/bdd"
	"github.com/katalvlaran/nuxlite/fsm"
	"github.com/sirupsen/logrus"
)

// Checker evaluates CTL formulas over one BDDFSM, caching its fair-state set
// (fair_states(): EG true under the current F ... computed
// once per FSM, cached).
type Checker struct {
	FSM *fsm.BDDFSM
	Mgr *bdd.Manager
	Log logrus.FieldLogger
}

// New returns a Checker over f, logging class-3 diagnostics (the AG-only
// fallback) to log, or to a no-op logger if log is nil.
func New(f *fsm.BDDFSM, log logrus.FieldLogger) *Checker {
	if log == nil {
		l := logrus.New()
		l.SetOutput(nilWriter{})
		log = l
	}

	return &Checker{FSM: f, Mgr: f.Mgr, Log: log}
}

type nilWriter struct{}

func (nilWriter) Write(p []byte) (int, error) { return len(p), nil }

// Distance is a MIN/MAX quantitative result: a finite, non-negative step
// count, or Infinite when no path exists, matching the "return ∞
// when no path".
type Distance struct {
	Value    int
	Infinite bool
}

// InfiniteDistance is the canonical "no path" Distance.
var InfiniteDistance = Distance{Infinite: true}

// Float renders d the way a COMPUTE property reports a number, using math.Inf for the unreachable case.
func (d Distance) Float() float64 {
	if d.Infinite {
		return math.Inf(1)
	}

	return float64(d.Value)
}
