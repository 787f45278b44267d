// Package registry implements the variable registry: it declares state
// variables, input variables, defines and constants, and lowers each
// declared variable to a vector of Boolean sub-variables ("bits")
// addressed by index, with a reverse map from bit to parent variable and
// position.
//
// Ordering-file parsing is a pure function over the file contents, kept
// separate from the encoding step so it is unit-testable without I/O.
//
// Registry keeps an explicit push/pop snapshot stack (rather than a
// child-context object) because the LTL tableau (package ltlx) relies on
// exactly that nesting contract: everything declared or encoded between a
// PushStatus and its PopStatus is discarded by the pop.
package registry
