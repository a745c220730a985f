package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrEmptyDataset   = errors.New("empty dataset")
	ErrColumnMismatch = errors.New("column selection mismatch")
	ErrDuplicateKey   = errors.New("duplicate team-game key")
)
