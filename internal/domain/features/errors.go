package features

import "errors"

// Sentinel kinds for feature building. These allow errors.Is/As from callers.
var (
	// ErrInsufficientHistory marks a player with zero prior games as of the
	// target date. Not an exceptional failure: it is the defined "no
	// forecast available" outcome.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrMissingReferenceData marks an absent opponent-strength entry.
	// Never substituted with a default; a silent default would corrupt the
	// forecast without detection.
	ErrMissingReferenceData = errors.New("missing reference data")
)
