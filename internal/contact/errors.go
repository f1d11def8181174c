package contact

import (
	"errors"
	"strings"
)

var (
	// ErrSubmissionInFlight is returned while an identical enquiry is
	// still being relayed.
	ErrSubmissionInFlight = errors.New("contact: submission already in flight")
)

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	var parts []string
	for _, field := range Fields {
		if msg := e.Fields[field]; msg != "" {
			parts = append(parts, field+": "+msg)
		}
	}
	return "contact: invalid form: " + strings.Join(parts, "; ")
}

// RejectedError is returned when the API answered 2xx but without the
// success message.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return "contact: submission rejected"
	}
	return "contact: submission rejected: " + e.Message
}
