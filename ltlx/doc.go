// Package ltlx reduces LTL model checking to fair-CTL checking: an
// input-lifting rewrite that moves input-variable occurrences into freshly
// introduced state variables, a Clarke-Grumberg-Hamaguchi symbolic tableau
// for the negated property, synchronous-product composition with the model
// FSM, and the feasibility decision with its lasso witness.
//
// The whole pass is bracketed by the registry's PushStatus/PopStatus so
// every tableau-introduced variable is discarded once the property is
// decided, whatever exit path is taken.
package ltlx
