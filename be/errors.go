package be

import "errors"

// Sentinel errors for be operations.
var (
	// ErrUnknownID indicates an operation on an ID this Manager never issued.
	ErrUnknownID = errors.New("be: unknown node id")
	// ErrUnknownGroup indicates an operation on a group name never created.
	ErrUnknownGroup = errors.New("be: unknown clause group")
	// ErrPermanentGroup indicates an attempt to remove the permanent group
	ErrPermanentGroup = errors.New("be: cannot remove the permanent group")
	// ErrUnsupportedTag indicates Encoder.ExprToBE hit a dagexpr.Tag the BE
	// layer cannot represent (a CTL/LTL/COMPUTE operator, or a malformed
	// CASE arm list) — those tags are only ever lowered through bdd.Encoder
	// or package ctl/ltlx/bmc's own propositional-subformula extraction.
	ErrUnsupportedTag = errors.New("be: unsupported expression tag")
	// ErrNotABooleanVar indicates a bare atom reference to a variable whose
	// declared range is wider than one bit; such a variable may only appear
	// under an equality.
	ErrNotABooleanVar = errors.New("be: bare reference to a non-Boolean variable")
	// ErrCircularDefine indicates a define expanded into itself during
	// encoding, the BE-layer twin of bdd's circular-define guard.
	ErrCircularDefine = errors.New("be: circular define")
)
