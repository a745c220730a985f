package source

import "errors"

// Sentinel kinds for data source errors.
var (
	ErrFetch          = errors.New("fetch season data failed")
	ErrParse          = errors.New("parse season data failed")
	ErrMissingColumns = errors.New("required columns missing")
)
