package profile

import "errors"

// Sentinel kinds for profile lookups.
var (
	ErrNotFound = errors.New("profile not found")
)
