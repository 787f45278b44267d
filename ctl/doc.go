// Package ctl implements the CTL model checker: a mutually recursive
// fixpoint evaluator for EX/EG/EU (and their bounded and A-dual forms),
// fair-state computation under justice and compassion constraints,
// quantitative MIN/MAX distance, and the AG-only fast path with its
// documented fallback to the general evaluator when the reachable-state
// set has not been precomputed.
package ctl
