package report

import "errors"

var (
	// ErrStaleResponse is returned when a fetch finished after a newer one started
	ErrStaleResponse = errors.New("response superseded by a newer request")

	ErrSessionNotFound  = errors.New("report session not found")
	ErrMissingCompany   = errors.New("company id is required")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrUnknownPolicy    = errors.New("unknown unidentified wage policy")
)
