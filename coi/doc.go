// Package coi computes the cone of influence of a property formula over a
// SexpFSM: the transitive closure of the variable-dependency relation
// starting from the formula's free variables, and the restricted FSM
// obtained by keeping only the fairness constraints the closure covers.
//
// The dependency graph adds an undirected clique among every variable
// co-occurring in one top-level conjunct of init/invar/trans or one
// justice/compassion formula. The monolithic trans expression is not
// partitioned per assigned variable the way a real per-variable NEXT
// assignment list would be, so the clique over-approximates per-conjunct
// dependency rather than deriving a precise assignment graph — a sound,
// conservative cone. The closure itself is a queue-based level walk over
// that graph.
package coi
