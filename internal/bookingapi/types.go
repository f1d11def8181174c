package bookingapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SubmitFormSuccessMessage is the exact message the submit-form endpoint
// returns when the enquiry was accepted.
const SubmitFormSuccessMessage = "Form submitted successfully"

// SubmitFormRequest is the body of POST /api/submit-form.
type SubmitFormRequest struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	City        string `json:"city"`
	Subject     string `json:"subject"`
}

// SubmitFormResponse is the body returned by POST /api/submit-form.
type SubmitFormResponse struct {
	Message string `json:"message"`
}

// InitializeBookingRequest is the body of POST /api/booking/initialize-booking.
type InitializeBookingRequest struct {
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	Amount        int    `json:"amount"`
}

// InitializeBookingResponse carries the order the checkout widget is opened with.
type InitializeBookingResponse struct {
	Success       bool   `json:"success"`
	OrderID       ID     `json:"orderId"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	RazorpayKeyID string `json:"razorpayKeyId"`
	PaymentID     ID     `json:"paymentId"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
}

// VerifyPaymentRequest is the body of POST /api/booking/verify-payment.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	PaymentID         string `json:"paymentId"`
}

// VerifyPaymentResponse reports whether the gateway signature checked out.
type VerifyPaymentResponse struct {
	Success       bool   `json:"success"`
	SchedulingURL string `json:"schedulingUrl,omitempty"`
	BookingID     ID     `json:"bookingId,omitempty"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
}

// PaymentFailedRequest is the body of POST /api/booking/payment-failed.
type PaymentFailedRequest struct {
	PaymentID string `json:"paymentId"`
	Error     string `json:"error"`
}

// ID is an identifier the booking API may encode either as a JSON string
// or as a number. It always decodes to its string form.
type ID string

// UnmarshalJSON accepts strings, numbers and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("bookingapi: id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the trimmed identifier.
func (id ID) String() string {
	return strings.TrimSpace(string(id))
}

// serverMessage picks the most specific text the API gave us.
func serverMessage(errText, message string) string {
	if s := strings.TrimSpace(errText); s != "" {
		return s
	}
	return strings.TrimSpace(message)
}
