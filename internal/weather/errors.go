package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse indicates a provider answered 2xx but the body
	// did not contain the minimal current-conditions block.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrUnknownProvider indicates a provider id not present in the registry.
	ErrUnknownProvider = errors.New("unknown weather provider")

	// ErrInvalidCoordinates indicates a coordinate pair outside
	// [-90,90] x [-180,180].
	ErrInvalidCoordinates = errors.New("coordinates out of range")

	// ErrNoLocationAvailable indicates every resolution source, including
	// the built-in fallback, failed. The resolver is written so this cannot
	// happen; it exists for callers injecting their own resolvers.
	ErrNoLocationAvailable = errors.New("no location available")

	// ErrRefreshInFlight indicates a refresh was coalesced because another
	// one is already running.
	ErrRefreshInFlight = errors.New("refresh already in progress")
)

// NetworkError is a transport-level failure: a non-2xx status or a timeout.
type NetworkError struct {
	Status  int // 0 when no response was received
	Timeout bool
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return "network error: timeout"
	}
	if e.Status != 0 {
		return fmt.Sprintf("network error: status %d", e.Status)
	}
	return "network error"
}

// IsTimeout reports whether err is a NetworkError caused by a timeout.
func IsTimeout(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne) && ne.Timeout
}
