// Package dagexpr implements the hash-consed expression DAG that is the
// substrate for every formula, circuit and symbolic term in nuxlite.
//
// A Node is an immutable record with a Tag drawn from a closed operator set
// (boolean connectives, arithmetic, relational, temporal CTL/LTL, structural
// nodes, and leaves), a source line, and up to two children. Two
// structurally equal nodes always share identity: Intern(tag, left, right)
// returns the same Node.ID for the same (tag, left, right) triple, for the
// lifetime of the Interner.
//
// Children are referenced by 32-bit ID rather than by pointer, so the DAG
// is trivially serializable and never forms ownership cycles even though it
// is built incrementally.
//
// Nodes have two provenances: interned nodes are kept alive for the life of
// the Interner and Release is a silent no-op on them; non-interned nodes
// (created with Make) may be Released, returning their arena slot to a free
// list for reuse — a chunked-allocator-plus-free-list discipline expressed
// as a growable slice plus an explicit free list, since Go's slice growth
// already gives amortized O(1) allocation.
package dagexpr
