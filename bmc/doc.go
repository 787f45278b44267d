// Package bmc implements bounded model checking: path unrolling,
// no-loop/single-loop/all-loops LTL encoding via the standard finite-length
// recurrences, Een-Sorensson k-induction for invariants, DIMACS dumping,
// and diagnostic extraction through package trace.
//
// The engine unrolls one BE copy of init/invar/trans per time frame and
// drives an outer loop over increasing path lengths, translating relative
// loopback indices to absolute ones per length and skipping the values a
// given length cannot host.
package bmc
