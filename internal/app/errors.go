package app

import "errors"

// Sentinel kinds for synchronizer errors.
var (
	ErrListingRequired   = errors.New("listing id required")
	ErrSourceRequired    = errors.New("feed source required")
	ErrApplicationFailed = errors.New("application persistence failed")
)
