package api

import (
	"errors"

	service "github.com/hoopcast/hoopcast/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
)

// isBadSource reports whether the error names an unknown ranking source.
func isBadSource(err error) bool {
	return errors.Is(err, service.ErrUnknownSource)
}
