package be

import "github.com/katalvlaran/nuxlite/registry"

// ID addresses a node in a Manager's hash-consed circuit arena. Like
// dagexpr.Empty and bdd's invalid ID, the zero value is never a live node.
type ID uint32

const (
	invalid ID = 0
	// False and True are the two constant leaves, fixed so every Manager
	// agrees on their identity without a lookup.
	False ID = 1
	True  ID = 2
	firstAllocID ID = 3
)

// Tag is the closed set of circuit node kinds.
type Tag uint8

const (
	tagConst Tag = iota // True/False only, never allocated beyond the two fixed IDs
	// TagVar is a variable leaf: either a base (unframed, time == -1) symbolic
	// variable introduced by NewVar, or a timed copy produced by
	// ShiftCurrNextToTime.
	TagVar
	TagNot
	TagAnd
	TagOr
	TagXor
)

// VarClass distinguishes a base variable's role in shift_curr_next_to_time:
// a current-state bit shifts to time t; a next-state bit shifts to time
// t+1.
type VarClass int

const (
	// ClassCurrent marks a bit sourced from the current-state frame.
	ClassCurrent VarClass = iota
	// ClassNext marks a bit sourced from the next-state frame.
	ClassNext
	// ClassInput marks an input-variable bit; inputs shift the same as
	// current-state bits (one copy per transition, never a "next" copy of
	// their own) but are tagged distinctly so callers can tell them apart.
	ClassInput
)

// varKey identifies a variable node for hash-consing: either a base
// (unframed) variable keyed by its registry bit and class, or a timed copy
// keyed additionally by time.
type varKey struct {
	bit   registry.Bit
	class VarClass
	time  int // -1 for a base (unframed) variable
}

// node is an interior circuit node.
type node struct {
	tag   Tag
	left  ID
	right ID // unused (invalid) for TagNot and TagVar
	vk    varKey
}

// structKey canonicalizes an AND/OR/XOR/NOT node for the unique table.
type structKey struct {
	tag         Tag
	left, right ID
}
