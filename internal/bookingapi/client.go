package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iereview/landinPage/pkg/logging"
)

var tracer = otel.Tracer("predicto.internal.bookingapi")

// Endpoint names, used for logs, spans and metrics labels.
const (
	EndpointSubmitForm        = "submit_form"
	EndpointInitializeBooking = "initialize_booking"
	EndpointVerifyPayment     = "verify_payment"
	EndpointPaymentFailed     = "payment_failed"
)

var endpointPaths = map[string]string{
	EndpointSubmitForm:        "/api/submit-form",
	EndpointInitializeBooking: "/api/booking/initialize-booking",
	EndpointVerifyPayment:     "/api/booking/verify-payment",
	EndpointPaymentFailed:     "/api/booking/payment-failed",
}

// maxBodyBytes caps how much of a response we are willing to buffer.
const maxBodyBytes = 1 << 20

// Observer receives one observation per upstream call.
type Observer interface {
	ObserveUpstream(endpoint string, status int, seconds float64)
}

// Client calls the remote booking API. It never retries; the visitor
// re-invokes the flow from the page.
type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   Observer
	logger     *logging.Logger
}

// NewClient creates a client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// WithObserver attaches a metrics observer.
func (c *Client) WithObserver(o Observer) *Client {
	c.observer = o
	return c
}

// SubmitForm relays a contact enquiry. Interpreting the message is left
// to the caller.
func (c *Client) SubmitForm(ctx context.Context, req SubmitFormRequest) (*SubmitFormResponse, error) {
	var out SubmitFormResponse
	if err := c.postJSON(ctx, EndpointSubmitForm, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InitializeBooking creates the order the checkout widget is opened with.
// A success:false body is returned as *DomainError.
func (c *Client) InitializeBooking(ctx context.Context, req InitializeBookingRequest) (*InitializeBookingResponse, error) {
	var out InitializeBookingResponse
	if err := c.postJSON(ctx, EndpointInitializeBooking, req, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, &DomainError{Endpoint: EndpointInitializeBooking, Message: serverMessage(out.Error, out.Message)}
	}
	return &out, nil
}

// VerifyPayment checks the gateway signature for a completed payment.
// A success:false body is returned as *DomainError.
func (c *Client) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	var out VerifyPaymentResponse
	if err := c.postJSON(ctx, EndpointVerifyPayment, req, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, &DomainError{Endpoint: EndpointVerifyPayment, Message: serverMessage(out.Error, out.Message)}
	}
	return &out, nil
}

// NotifyPaymentFailed records an abandoned payment. The response body is ignored.
func (c *Client) NotifyPaymentFailed(ctx context.Context, req PaymentFailedRequest) error {
	return c.postJSON(ctx, EndpointPaymentFailed, req, nil)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body any, out any) error {
	ctx, span := tracer.Start(ctx, "bookingapi."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("predicto.endpoint", endpoint)),
	)
	defer span.End()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("bookingapi: encode %s: %w", endpoint, err)
	}

	apiURL := c.baseURL + endpointPaths[endpoint]
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("bookingapi: build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, 0, start)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		c.logger.Warn("booking api request failed", "endpoint", endpoint, "error", err)
		return &NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()
	c.observe(endpoint, resp.StatusCode, start)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		span.RecordError(err)
		return &NetworkError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, "status")
		c.logger.Warn("booking api returned error status", "endpoint", endpoint, "status", resp.StatusCode)
		return &NetworkError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    errorBodyMessage(data),
			Err:        fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode")
		return &ProtocolError{Endpoint: endpoint, Err: err}
	}
	return nil
}

func (c *Client) observe(endpoint string, status int, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveUpstream(endpoint, status, time.Since(start).Seconds())
}

// errorBodyMessage pulls error/message out of a JSON error body, if any.
func errorBodyMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return serverMessage(body.Error, body.Message)
}
