// Package trace reconstructs state-input-state counterexample sequences
// from two distinct witness shapes: a fair seed state a CTL or LTL fixpoint
// check leaves behind (layered-BFS shortest-path extraction over package
// fsm's reachability layering) and a satisfying SAT model a BMC unrolling
// produces (decoded through package be's CNF variable map back into
// per-(variable, time) bit assignments). Both paths converge on the same
// Trace value, which a Manager then hands an integer id.
package trace
