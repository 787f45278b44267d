package ctl

import "github.com/katalvlaran/nuxlite/bdd"

// EBF computes E[true U<=u] phi restricted to the window [l,u]: states with
// a witness path of length in [l,u] reaching phi, by step-indexed unrolling
// of EX rather than the unbounded EU fixpoint.
func (c *Checker) EBF(l, u int, phi bdd.ID) bdd.ID {
	acc := c.Mgr.Ref(c.Mgr.False())
	frontier := c.Mgr.Ref(phi)

	for step := 0; step <= u; step++ {
		if step >= l {
			next := c.Mgr.Or(acc, frontier)
			c.Mgr.Deref(acc)
			acc = next
		}
		if step == u {
			break
		}
		pre := c.EX(frontier)
		c.Mgr.Deref(frontier)
		frontier = pre
	}
	c.Mgr.Deref(frontier)

	return acc
}

// EBG computes states with a path of length exactly u along which phi holds
// at every step in [l,u] — the bounded dual of EG, built backward from step
// u by intersecting step-indexed EX-preimages with phi rather than the
// unbounded greatest fixpoint.
func (c *Checker) EBG(l, u int, phi bdd.ID) bdd.ID {
	acc := c.Mgr.Ref(c.Mgr.True())

	for step := u; step >= 0; step-- {
		if step < u {
			pre := c.EX(acc)
			c.Mgr.Deref(acc)
			acc = pre
		}
		if step >= l {
			next := c.Mgr.And(acc, phi)
			c.Mgr.Deref(acc)
			acc = next
		}
	}

	return acc
}

// EBU computes E[phi U psi] restricted to a witness step count in [l,u].
// Qk describes the state u-k steps from the start, so psi counts there only
// when l <= u-k: Q0 = psi if l<=u else false; Qk = (psi if l<=u-k) |
// (phi & EX(Q(k-1))), returned at k=u.
func (c *Checker) EBU(l, u int, phi, psi bdd.ID) bdd.ID {
	var z bdd.ID
	if l <= u {
		z = c.Mgr.Ref(psi)
	} else {
		z = c.Mgr.Ref(c.Mgr.False())
	}

	for step := 1; step <= u; step++ {
		ex := c.EX(z)
		phiEx := c.Mgr.And(phi, ex)
		c.Mgr.Deref(ex)

		var next bdd.ID
		if step <= u-l {
			next = c.Mgr.Or(psi, phiEx)
			c.Mgr.Deref(phiEx)
		} else {
			next = phiEx
		}

		c.Mgr.Deref(z)
		z = next
	}

	return z
}

// ABF, ABG, ABU are the universal-path duals of the bounded existential
// operators, expressed exactly as AX/AF/AG/AU are over EX/EF/EG/EU.
func (c *Checker) ABF(l, u int, phi bdd.ID) bdd.ID {
	n := c.Mgr.Not(phi)
	ebg := c.EBG(l, u, n)
	c.Mgr.Deref(n)
	r := c.Mgr.Not(ebg)
	c.Mgr.Deref(ebg)

	return r
}

func (c *Checker) ABG(l, u int, phi bdd.ID) bdd.ID {
	n := c.Mgr.Not(phi)
	ebf := c.EBF(l, u, n)
	c.Mgr.Deref(n)
	r := c.Mgr.Not(ebf)
	c.Mgr.Deref(ebf)

	return r
}

// ABU computes A[phi U<=[l,u] psi] directly, the same step-indexed
// recurrence as EBU with AX standing in for EX — exactly how AU replaces
// EU's EX with AX in fixpoint.go, just bounded instead of run to a
// fixpoint.
func (c *Checker) ABU(l, u int, phi, psi bdd.ID) bdd.ID {
	var z bdd.ID
	if l <= u {
		z = c.Mgr.Ref(psi)
	} else {
		z = c.Mgr.Ref(c.Mgr.False())
	}

	for step := 1; step <= u; step++ {
		ax := c.AX(z)
		phiAx := c.Mgr.And(phi, ax)
		c.Mgr.Deref(ax)

		var next bdd.ID
		if step <= u-l {
			next = c.Mgr.Or(psi, phiAx)
			c.Mgr.Deref(phiAx)
		} else {
			next = phiAx
		}

		c.Mgr.Deref(z)
		z = next
	}

	return z
}
