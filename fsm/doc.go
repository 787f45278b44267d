// Package fsm implements the Sexp FSM and the BDD FSM: the
// (init, invar, trans, input, justice, compassion) tuple in expression form,
// and its BDD-compiled counterpart with monolithic/threshold/Iwls95
// partitioning, forward/backward image, lazily-computed reachable-state and
// fair-state sets, and CheckMachine diagnostics.
//
// The reachable-state layering (a distance-indexed sequence of frontier
// BDDs) is a BFS level graph over the image relation: a forward-image
// fixpoint over an unweighted relation, with BDD sets standing in for
// vertex sets. The layering is what counterexample extraction walks
// backward through.
package fsm
