package service

import "errors"

// Sentinel kinds for service errors.
var ErrNoStatsSource = errors.New("no stats source configured")
