package bmc

import "errors"

// Sentinel errors for bmc operations.
var (
	// ErrKInductionInconclusive reports that neither Base(k) nor Step(k)
	// settled the property by max_k — the invariant is neither refuted nor
	// proved within the configured bound.
	ErrKInductionInconclusive = errors.New("bmc: k-induction did not settle within max_k")
)
