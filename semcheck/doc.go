// Package semcheck implements the semantic checker: three passes over a
// flattened model performed before encoding — multiple assignment,
// circular definition, and input-variable position restriction.
//
// The circularity pass marks each symbol open while its right-hand side is
// being walked and closed once it finishes; a back-edge into an open symbol
// is reported as recursively defined, with the stack of symbols under
// resolution attached to the diagnostic.
package semcheck
