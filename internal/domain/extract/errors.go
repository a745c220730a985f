package extract

import "errors"

// Sentinel kinds for extraction errors.
var (
	ErrTypeConversion = errors.New("type conversion failed")
)
