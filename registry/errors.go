package registry

import "errors"

// Sentinel errors for registry operations. Callers should use errors.Is to
// branch on semantics, never string comparison.
var (
	// ErrEmptyName indicates a declaration with an empty symbol name.
	ErrEmptyName = errors.New("registry: symbol name is empty")

	// ErrRedefined indicates re-declaration of an existing name with a
	// different definition (re-declaration of an existing
	// name fails with REDEFINED unless the exact definition recurs).
	ErrRedefined = errors.New("registry: symbol redefined")

	// ErrAmbiguous indicates a name already classified under a different
	// symbol kind (define/var/constant)
	// "Symbol classification ... ambiguity ... is an error".
	ErrAmbiguous = errors.New("registry: symbol classification ambiguous")

	// ErrUndefined indicates a query against a name never declared.
	ErrUndefined = errors.New("registry: symbol undefined")

	// ErrEmptyRange indicates a declared variable with zero constants in
	// its range.
	ErrEmptyRange = errors.New("registry: variable range is empty")

	// ErrNotEncoded indicates a bit-level query before encode_vars has run.
	ErrNotEncoded = errors.New("registry: variable has not been encoded")

	// ErrAlreadyEncoded indicates a declaration attempted after
	// EncodeVars has already assigned bit positions; the registry's
	// ordering is frozen at that point until a Pop discards the bits
	// again.
	ErrAlreadyEncoded = errors.New("registry: registry already encoded")

	// ErrEmptyStack indicates PopStatus called with no matching PushStatus.
	ErrEmptyStack = errors.New("registry: snapshot stack is empty")
)
