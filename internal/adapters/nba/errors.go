package nba

import "errors"

// Sentinel kinds for upstream fetch errors.
var (
	ErrUpstreamStatus    = errors.New("upstream returned non-200 status")
	ErrMalformedResponse = errors.New("malformed upstream response")
	ErrMissingColumn     = errors.New("result set missing expected column")
)
