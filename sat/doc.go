// Package sat implements the SAT solver facade: a shared interface over
// named, frozen-aware clause groups (delegated to be.Groups), polarity
// assertion, solving, model extraction, and SolveUnderAssumptions for
// k-induction and loopback checking.
//
// The internal search is a DPLL solver (unit propagation + decision +
// chronological backtracking) with a deterministic branch order, a
// dedicated engine struct, sparse deadline checks, and two
// bits-and-blooms/bitset bit-vectors (assigned, value) tracking the
// partial assignment.
package sat
