package adsbridge

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates missing or empty consumer credentials.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidRequest indicates an unsupported method, an unparseable path or base URL,
	// or an API version without a leading numeral.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrSigning indicates the OAuth signature could not be computed.
	ErrSigning = errors.New("signing error")

	// ErrRateLimitExceeded is returned by the bridge when 429s persist past MaxRetries.
	ErrRateLimitExceeded = errors.New("rate limit exceeded and max retries reached")
	// ErrAccountNotRegistered is returned by the bridge for unknown account names.
	ErrAccountNotRegistered = errors.New("account not registered")
)

// TransportError carries an error returned by the Transport unchanged.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
