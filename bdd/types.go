package bdd

import "errors"

// Sentinel errors for manager and encoder operations.
var (
	// ErrUnknownID indicates an operation on an ID the manager never issued.
	ErrUnknownID = errors.New("bdd: unknown node id")
	// ErrVarOutOfRange indicates a variable index outside [0, NumVars).
	ErrVarOutOfRange = errors.New("bdd: variable index out of range")
	// ErrCircularDefine indicates expr_to_bdd found a define that expands
	// into itself, directly or transitively.
	ErrCircularDefine = errors.New("bdd: circular define")
	// ErrUnsupportedTag indicates an expression node expr_to_bdd cannot
	// lower: any tag outside the Boolean connectives, equality/disequality,
	// NEXT and CASE (arithmetic tags included), an equality whose left side
	// is not a bare symbol, a nested NEXT, or a malformed CASE arm list.
	ErrUnsupportedTag = errors.New("bdd: unsupported expression tag")
	// ErrNotABooleanVar indicates expr_to_bdd was asked to treat a
	// multi-valued symbol as a single Boolean atom.
	ErrNotABooleanVar = errors.New("bdd: symbol is not a single-bit variable")
)

// ID addresses a node in a Manager's arena. The two terminals are fixed:
// False is always 1, True is always 2; 0 is never issued and reads back as
// ErrUnknownID, mirroring dagexpr.Empty's role as an absent handle.
type ID uint32

const (
	// invalid is the zero ID, never returned by a constructor.
	invalid ID = 0
	// False is the constant-0 terminal.
	False ID = 1
	// True is the constant-1 terminal.
	True ID = 2
	firstVarID ID = 3
)

// node is an interior BDD vertex: branch on Var, taking Low when the
// variable is false and High when it is true. Terminal nodes (False, True)
// are never represented as node values; they are handled as special cases
// throughout the manager.
type node struct {
	Var        int
	Low, High  ID
	refs       uint32
}

// key canonicalizes a node for the unique table.
type key struct {
	Var       int
	Low, High ID
}
