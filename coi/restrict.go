package coi

import (
	"github.com/katalvlaran/nuxlite/dagexpr"
	"github.com/katalvlaran/nuxlite/fsm"
	"github.com/katalvlaran/nuxlite/registry"
)

// Restrict projects the FSM onto the cone: "fairness
// constraints irrelevant to the property (outside its cone) may be dropped
// without affecting the verification verdict." Init/Invar/Trans/Input are
// kept verbatim — the cone only ever narrows which fairness constraints a
// property-specific check needs to honor, never the transition relation
// itself, since a monolithic trans/invar is not safe to partially evaluate
// without a real per-variable assignment graph (see package doc).
func (c *Cone) Restrict(in *dagexpr.Interner, reg *registry.Registry, sx *fsm.SexpFSM) *fsm.SexpFSM {
	var justice []dagexpr.ID
	for _, j := range sx.Justice {
		if c.allIn(in, reg, j) {
			justice = append(justice, j)
		}
	}

	var compassion [][2]dagexpr.ID
	for _, pair := range sx.Compassion {
		if c.allIn(in, reg, pair[0]) && c.allIn(in, reg, pair[1]) {
			compassion = append(compassion, pair)
		}
	}

	return fsm.NewSexpFSM(sx.Init, sx.Invar, sx.Trans, sx.Input, justice, compassion)
}
