package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound = errors.New("application not found")
)
