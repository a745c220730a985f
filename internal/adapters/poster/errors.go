package poster

import (
	"errors"
	"fmt"
)

// Sentinel kinds for posting errors.
var (
	ErrPosting       = errors.New("posting failed")
	ErrMissingCreds  = errors.New("missing X credentials")
	ErrEmptyPostText = fmt.Errorf("%w: empty post text", ErrPosting)
)
