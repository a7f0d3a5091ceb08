package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound        = errors.New("player not found")
	ErrDuplicateRecord = errors.New("record already stored")
)
