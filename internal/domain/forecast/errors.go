package forecast

import "errors"

// Sentinel kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnknownStat     = errors.New("no model for stat")
	ErrBadLevel        = errors.New("confidence level must be in (0,1)")
	ErrArtifactMissing = errors.New("model artifact missing")
	ErrArtifactInvalid = errors.New("model artifact invalid")
)
