package booking

import (
	"errors"
	"strings"
)

// User-facing failure texts.
const (
	MsgInitializeFailed = "Failed to initialize payment"
	MsgPaymentIDMissing = "Payment ID not found. Please try again."
	MsgVerifyFailed     = "Payment verification failed"
	MsgUserCancelled    = "Payment cancelled by user"
)

var (
	// ErrUserCancelled is recorded when the visitor dismisses the checkout
	// widget.
	ErrUserCancelled = errors.New(MsgUserCancelled)
	// ErrPaymentIDMissing is recorded when the completion callback fires
	// without a payment id captured at initialization.
	ErrPaymentIDMissing = errors.New(MsgPaymentIDMissing)
	// ErrAttemptInFlight is returned while the same customer already has a
	// checkout being initialized.
	ErrAttemptInFlight = errors.New("booking: checkout already in flight")
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("booking: session not found")
	// ErrInvalidState is returned when a callback arrives out of order.
	ErrInvalidState = errors.New("booking: operation not allowed in current state")
)

// ValidationError carries per-field messages for the payment form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	var parts []string
	for _, field := range CustomerFields {
		if msg := e.Fields[field]; msg != "" {
			parts = append(parts, field+": "+msg)
		}
	}
	return "booking: invalid customer: " + strings.Join(parts, "; ")
}
