// Package ratings provides a client for the player ratings service.
package ratings

import "errors"

var (
	// ErrServiceUnavailable indicates the ratings service is unreachable
	ErrServiceUnavailable = errors.New("ratings service unavailable")

	// ErrRatingNotFound indicates no rating exists for the player
	ErrRatingNotFound = errors.New("rating not found")

	// ErrInvalidResponse indicates the ratings response could not be decoded
	ErrInvalidResponse = errors.New("invalid response from ratings service")

	// ErrCircuitOpen indicates the circuit breaker rejected the request
	ErrCircuitOpen = errors.New("ratings circuit breaker open")
)
