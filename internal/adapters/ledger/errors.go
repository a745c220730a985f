package ledger

import "errors"

// Sentinel kinds for ledger errors.
var (
	ErrLedgerIO = errors.New("ledger io failed")
)
