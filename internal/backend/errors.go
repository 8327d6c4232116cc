package backend

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind     = errors.New("no endpoint configured for entry kind")
	ErrMissingRecordID = errors.New("record id is required")
)

// APIError is a non-2xx answer from the fleet backend. Message carries the
// backend-provided text when the body had one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}
