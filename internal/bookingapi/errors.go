package bookingapi

import (
	"errors"
	"fmt"
)

// NetworkError is returned when the request could not be delivered or the
// API answered with a non-2xx status.
type NetworkError struct {
	Endpoint   string
	StatusCode int
	// Message is the server-supplied text, if the error body carried one.
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		if e.Message != "" {
			return fmt.Sprintf("bookingapi: %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Message)
		}
		return fmt.Sprintf("bookingapi: %s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("bookingapi: %s request failed: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ProtocolError is returned when a 2xx response body is not the JSON we expect.
type ProtocolError struct {
	Endpoint string
	Err      error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("bookingapi: %s returned malformed body: %v", e.Endpoint, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// DomainError is returned when the API answered success:false.
type DomainError struct {
	Endpoint string
	Message  string
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bookingapi: %s reported failure", e.Endpoint)
	}
	return fmt.Sprintf("bookingapi: %s reported failure: %s", e.Endpoint, e.Message)
}

// UserMessage extracts the text to show a visitor for err. Server-supplied
// messages win; everything else collapses to fallback.
func UserMessage(err error, fallback string) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return domainErr.Message
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) && netErr.Message != "" {
		return netErr.Message
	}
	return fallback
}
