// Package propdb is the property database: a dense, 0-based indexed
// collection of properties, each carrying its kind (CTL, LTL, INVAR,
// COMPUTE, PSL), a monotonic status, an optional counterexample trace id,
// and — when cone-of-influence reduction is on — its own restricted FSM,
// filled lazily the first time the property is verified.
//
// VerifyAll drives the observable ordering: properties are verified by kind
// (CTL, COMPUTE, LTL, PSL, INVAR) and by ascending index within a kind. A
// property is checked at most once unless explicitly Reset.
package propdb
