// Package nuxlite is the verification core of a symbolic model checker for
// finite-state reactive systems: it takes a flattened, Boolean-encoded FSM
// (init, invar, trans, inputs, fairness) together with a temporal-logic
// property and decides whether the FSM satisfies it, producing a
// counterexample trace when it does not.
//
// The core is organized as one package per subsystem:
//
//	dagexpr/  — hash-consed expression DAG and interner
//	registry/ — variable registry: declarations, ranges, bit encoding,
//	            push/pop snapshots
//	bdd/      — BDD manager and expression-to-BDD encoder
//	be/       — AIG-like Boolean-expression layer with Tseitin CNF and
//	            time-frame shifting
//	fsm/      — Sexp FSM and its BDD-compiled counterpart: images,
//	            reachability layering, partitioned transition relations
//	sat/      — SAT solver facade over named clause groups
//	bmc/      — bounded model checking: LTL unrolling, k-induction, DIMACS
//	ctl/      — fair-CTL fixpoint evaluator, bounded operators, MIN/MAX
//	ltlx/     — LTL-to-tableau reduction with input-variable lifting
//	trace/    — counterexample synthesis and the trace-manager handoff
//	propdb/   — property database and per-kind verification dispatch
//	coi/      — cone-of-influence FSM restriction
//	semcheck/ — semantic checks: multiple assignment, circularity, input
//	            placement
//	errkind/  — shared error-class taxonomy
//	session/  — the explicit session context owning the shared singletons
//
// The parser/flattener, interactive shell, ordering-file I/O and trace
// storage are external collaborators; package session is the seam they
// plug into.
package nuxlite
