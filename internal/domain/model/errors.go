package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrInconsistentStatLine = errors.New("inconsistent stat line")
)
