package sequence

import "errors"

// Sentinel kinds for sequence errors.
var (
	ErrUnknownMode = errors.New("unknown scoring mode")
)
