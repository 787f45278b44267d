// Package bdd implements a canonical, reference-counted Reduced Ordered
// Binary Decision Diagram manager plus an encoder that lowers hash-consed
// Boolean expressions (package dagexpr) over variables declared in a
// registry.Registry into BDDs.
//
// The manager's unique table follows the same hash-keyed identity-map shape
// as dagexpr's Interner: nodes are addressed by a 32-bit ID into an arena,
// canonicalized through a map keyed by (variable, low, high), with a free
// list recycling IDs whose reference count has dropped to zero. The
// apply/ite/reduce algorithm is the standard Bryant construction; the
// randomized minterm picker takes an injected *rand.Rand so tests stay
// deterministic under a fixed seed.
package bdd
