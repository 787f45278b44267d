// Package be implements the Boolean Expression manager: a reduced,
// hash-consed AIG-like circuit layer over AND/OR/XOR/NOT and
// variable/constant leaves, a Tseitin ConvertToCNF, per-time-frame variable
// shifting (ShiftCurrNextToTime), and frozen clause-group bookkeeping for
// the SAT facade (package sat) to build on.
//
// CNF.VarSet reports a CNF's variables as a
// github.com/bits-and-blooms/bitset.BitSet. Frozen-group merge/removal uses a
// disjoint-set union with path compression and union by rank.
package be
