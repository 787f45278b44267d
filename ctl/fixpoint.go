package ctl

import "github.com/katalvlaran/nuxlite/bdd"

// EX returns the states with at least one invar-respecting successor in
// phi: backward_image(phi) ∧ V.
func (c *Checker) EX(phi bdd.ID) bdd.ID {
	img := c.FSM.BackwardImage(phi)
	r := c.Mgr.And(img, c.FSM.Invar)
	c.Mgr.Deref(img)

	return r
}

// EU computes E[φ U ψ] as the least fixpoint μZ. ψ ∨ (φ ∧ EX Z).
func (c *Checker) EU(phi, psi bdd.ID) bdd.ID {
	z := c.Mgr.Ref(c.Mgr.False())
	for {
		ex := c.EX(z)
		phiEx := c.Mgr.And(phi, ex)
		c.Mgr.Deref(ex)
		next := c.Mgr.Or(psi, phiEx)
		c.Mgr.Deref(phiEx)

		if next == z {
			c.Mgr.Deref(next)

			return z
		}
		c.Mgr.Deref(z)
		z = next
	}
}

// EF returns E[true U φ], reachability under the existential path
// quantifier.
func (c *Checker) EF(phi bdd.ID) bdd.ID {
	return c.EU(c.Mgr.Ref(c.Mgr.True()), phi)
}

// fairnessConstraints returns the per-justice-fragment fairness predicates
// the fair-EG fixpoint conjoins over: the model's justice formulas directly,
// plus — "Compassion is reduced to the emerson-lei style
// nested fixpoint over justice fragments by a preprocessing step" — one
// derived justice-like fragment ¬p ∨ q per compassion pair (p, q). This is
// a documented simplification of full Streett-pair compassion: it captures
// "p infinitely often implies q infinitely often"
// as a single always-eventually obligation rather than the exact nested
// Emerson-Lei tableau, which is sound for the common case where p and q do
// not themselves need separate infinite-occurrence bookkeeping.
//
// The justice entries are borrowed from the FSM; the derived compassion
// fragments are owned handles, returned separately so the caller can
// release each of them once its fixpoint completes.
func (c *Checker) fairnessConstraints() (all, derived []bdd.ID) {
	all = append([]bdd.ID(nil), c.FSM.Justice...)
	for _, pair := range c.FSM.Compassion {
		notP := c.Mgr.Not(pair[0])
		frag := c.Mgr.Or(notP, pair[1])
		c.Mgr.Deref(notP)
		all = append(all, frag)
		derived = append(derived, frag)
	}

	return all, derived
}

// FairStates returns (and caches on the FSM) the greatest set of states from
// which a fair path exists: EG true under the current fairness constraints
func (c *Checker) FairStates() bdd.ID {
	if cached, ok := c.FSM.FairStates(); ok {
		return c.Mgr.Ref(cached)
	}

	f, derived := c.fairnessConstraints()
	defer func() {
		for _, d := range derived {
			c.Mgr.Deref(d)
		}
	}()
	z := c.Mgr.Ref(c.Mgr.True())

	if len(f) == 0 {
		// No fairness constraints: a fair path is just an infinite path,
		// νZ. EX Z — states from which the relation never dead-ends.
		for {
			ex := c.EX(z)
			next := c.Mgr.And(z, ex)
			c.Mgr.Deref(ex)
			if next == z {
				c.Mgr.Deref(next)

				break
			}
			c.Mgr.Deref(z)
			z = next
		}
		c.FSM.SetFairStates(c.Mgr.Ref(z))

		return z
	}

	for {
		changed := false
		for _, fi := range f {
			zAndFi := c.Mgr.And(z, fi)
			u := c.EU(z, zAndFi)
			c.Mgr.Deref(zAndFi)
			exU := c.EX(u)
			c.Mgr.Deref(u)
			next := c.Mgr.And(z, exU)
			c.Mgr.Deref(exU)
			if next != z {
				changed = true
			}
			c.Mgr.Deref(z)
			z = next
		}
		if !changed {
			break
		}
	}

	c.FSM.SetFairStates(c.Mgr.Ref(z))

	return z
}

// EG computes the fair EG φ fixpoint: νZ. φ ∧ ∧ᵢ
// EX(EU(Z, Z ∧ fᵢ)), seeded at Z₀ = φ ∧ fair_states().
func (c *Checker) EG(phi bdd.ID) bdd.ID {
	f, derived := c.fairnessConstraints()
	defer func() {
		for _, d := range derived {
			c.Mgr.Deref(d)
		}
	}()
	fair := c.FairStates()
	z := c.Mgr.And(phi, fair)
	c.Mgr.Deref(fair)

	if len(f) == 0 {
		// Unfair EG is the plain greatest fixpoint νZ. φ ∧ EX Z.
		for {
			ex := c.EX(z)
			next := c.Mgr.And(z, ex)
			c.Mgr.Deref(ex)
			if next == z {
				c.Mgr.Deref(next)

				return z
			}
			c.Mgr.Deref(z)
			z = next
		}
	}

	for {
		acc := c.Mgr.Ref(phi)
		for _, fi := range f {
			zAndFi := c.Mgr.And(z, fi)
			u := c.EU(z, zAndFi)
			c.Mgr.Deref(zAndFi)
			exU := c.EX(u)
			c.Mgr.Deref(u)
			next := c.Mgr.And(acc, exU)
			c.Mgr.Deref(acc)
			c.Mgr.Deref(exU)
			acc = next
		}
		if acc == z {
			c.Mgr.Deref(acc)

			return z
		}
		c.Mgr.Deref(z)
		z = acc
	}
}

// AX, AF, AG, AU are the universal-path duals, reduced to the E-forms.
func (c *Checker) AX(phi bdd.ID) bdd.ID {
	n := c.Mgr.Not(phi)
	ex := c.EX(n)
	c.Mgr.Deref(n)
	r := c.Mgr.Not(ex)
	c.Mgr.Deref(ex)

	return r
}

func (c *Checker) AF(phi bdd.ID) bdd.ID {
	n := c.Mgr.Not(phi)
	eg := c.EG(n)
	c.Mgr.Deref(n)
	r := c.Mgr.Not(eg)
	c.Mgr.Deref(eg)

	return r
}

func (c *Checker) AG(phi bdd.ID) bdd.ID {
	n := c.Mgr.Not(phi)
	ef := c.EF(n)
	c.Mgr.Deref(n)
	r := c.Mgr.Not(ef)
	c.Mgr.Deref(ef)

	return r
}

// AU computes A[φ U ψ] = ¬(E[¬ψ U (¬φ∧¬ψ)] ∨ EG ¬ψ).
func (c *Checker) AU(phi, psi bdd.ID) bdd.ID {
	notPhi := c.Mgr.Not(phi)
	notPsi := c.Mgr.Not(psi)
	both := c.Mgr.And(notPhi, notPsi)
	c.Mgr.Deref(notPhi)

	eu := c.EU(notPsi, both)
	c.Mgr.Deref(both)
	eg := c.EG(notPsi)
	c.Mgr.Deref(notPsi)

	union := c.Mgr.Or(eu, eg)
	c.Mgr.Deref(eu)
	c.Mgr.Deref(eg)

	r := c.Mgr.Not(union)
	c.Mgr.Deref(union)

	return r
}
