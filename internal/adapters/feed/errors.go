package feed

import "errors"

// Sentinel kinds for feed errors.
var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrSourceClosed      = errors.New("source closed")
)

// TransportError is a subscription-level failure from the underlying live
// data capability. It surfaces to the caller verbatim together with a
// recoverable flag so the UI layer can decide whether to retry.
type TransportError struct {
	Collection  string
	Recoverable bool
	Err         error
}

func (e *TransportError) Error() string {
	return "feed " + e.Collection + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
