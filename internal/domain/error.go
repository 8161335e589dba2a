package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")

	// Turn pipeline
	ErrStorageUnavailable       = errors.New("job store unavailable")
	ErrMalformedModelOutput     = errors.New("malformed model output")
	ErrExternalModelUnavailable = errors.New("conversational model unavailable")

	// Audio path
	ErrInvalidInput         = errors.New("invalid input")
	ErrSynthesisUnavailable = errors.New("speech synthesis unavailable")

	// Admin / edge
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
)
