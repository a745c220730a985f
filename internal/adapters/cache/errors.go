package cache

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrCacheIO = errors.New("season cache failed")
)
