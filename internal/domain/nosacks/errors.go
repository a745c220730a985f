package nosacks

import "errors"

// Sentinel kinds for no-sacks report errors.
var (
	ErrInvalidWeek = errors.New("invalid week number")
)
