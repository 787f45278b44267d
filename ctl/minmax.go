package ctl

import "github.com/katalvlaran/nuxlite/bdd"

// MIN returns the shortest distance, in image steps, from a reachable
// phi-state to a psi-state: a forward BFS seeded at the
// reachable phi-states, stepping through the transition relation until a
// frontier meets psi. Infinite when no phi-state reaches psi (including
// when no phi-state is reachable at all).
func (c *Checker) MIN(phi, psi bdd.ID) Distance {
	r := c.FSM.ReachableStates()

	frontier := c.Mgr.And(r.Set, phi)
	if frontier == c.Mgr.False() {
		c.Mgr.Deref(frontier)

		return InfiniteDistance
	}
	acc := c.Mgr.Ref(frontier)

	for step := 0; ; step++ {
		hit := c.Mgr.And(frontier, psi)
		nonEmpty := hit != c.Mgr.False()
		c.Mgr.Deref(hit)
		if nonEmpty {
			c.Mgr.Deref(frontier)
			c.Mgr.Deref(acc)

			return Distance{Value: step}
		}

		img := c.FSM.ForwardImage(frontier)
		c.Mgr.Deref(frontier)
		withInvar := c.Mgr.And(img, c.FSM.Invar)
		c.Mgr.Deref(img)

		notAcc := c.Mgr.Not(acc)
		frontier = c.Mgr.And(withInvar, notAcc)
		c.Mgr.Deref(withInvar)
		c.Mgr.Deref(notAcc)

		if frontier == c.Mgr.False() {
			c.Mgr.Deref(frontier)
			c.Mgr.Deref(acc)

			return InfiniteDistance
		}

		grown := c.Mgr.Or(acc, frontier)
		c.Mgr.Deref(acc)
		acc = grown
	}
}

// MAX returns the longest of the shortest distances from a reachable
// phi-state to psi: a backward BFS accumulates the states
// within i steps of psi; the answer is the i at which every reachable
// phi-state is covered. Infinite when some reachable phi-state never
// reaches psi, or when no phi-state is reachable.
func (c *Checker) MAX(phi, psi bdd.ID) Distance {
	r := c.FSM.ReachableStates()

	reach := c.Mgr.And(r.Set, c.FSM.Invar)
	defer c.Mgr.Deref(reach)

	phiR := c.Mgr.And(reach, phi)
	defer c.Mgr.Deref(phiR)
	if phiR == c.Mgr.False() {
		return InfiniteDistance
	}

	covered := c.Mgr.And(reach, psi)

	for step := 0; ; step++ {
		notCovered := c.Mgr.Not(covered)
		missing := c.Mgr.And(phiR, notCovered)
		c.Mgr.Deref(notCovered)
		done := missing == c.Mgr.False()
		c.Mgr.Deref(missing)
		if done {
			c.Mgr.Deref(covered)

			return Distance{Value: step}
		}

		pre := c.FSM.BackwardImage(covered)
		preReach := c.Mgr.And(pre, reach)
		c.Mgr.Deref(pre)
		grown := c.Mgr.Or(covered, preReach)
		c.Mgr.Deref(preReach)

		if grown == covered {
			c.Mgr.Deref(grown)
			c.Mgr.Deref(covered)

			return InfiniteDistance
		}
		c.Mgr.Deref(covered)
		covered = grown
	}
}
