package service

import "errors"

var (
	// ErrUnknownSource is returned when a ranking request names a stat
	// source other than forecast or season.
	ErrUnknownSource = errors.New("unknown ranking source")

	// ErrComparisonSize is returned when a comparison names fewer than
	// two or more than three players.
	ErrComparisonSize = errors.New("comparison requires two or three players")
)
