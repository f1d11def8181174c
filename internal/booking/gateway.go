package booking

import (
	"context"
	"sync"
)

// CheckoutOptions configures the third-party checkout widget. Field names
// follow the widget's own option keys.
type CheckoutOptions struct {
	Key         string  `json:"key"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	OrderID     string  `json:"order_id"`
	Prefill     Prefill `json:"prefill"`
	Theme       Theme   `json:"theme"`
}

// Prefill pre-populates the widget's customer fields.
type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// Theme styles the widget.
type Theme struct {
	Color string `json:"color"`
}

// GatewayResponse is what the widget hands to its completion handler.
type GatewayResponse struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// Callbacks are the widget's two hooks.
type Callbacks struct {
	OnComplete func(ctx context.Context, resp GatewayResponse) error
	OnDismiss  func(ctx context.Context) error
}

// Gateway opens the checkout widget for a session.
type Gateway interface {
	Open(ctx context.Context, sessionID string, opts CheckoutOptions, cb Callbacks) error
	// Release forgets the widget state for a session.
	Release(sessionID string)
}

// HostedGateway is the Gateway for a widget that runs in the browser. Open
// records the options so they can be returned to the page, and the
// browser relays the widget's hooks back through Complete and Dismiss.
type HostedGateway struct {
	mu      sync.Mutex
	widgets map[string]hostedWidget
}

type hostedWidget struct {
	opts CheckoutOptions
	cb   Callbacks
}

// NewHostedGateway creates an empty HostedGateway.
func NewHostedGateway() *HostedGateway {
	return &HostedGateway{widgets: make(map[string]hostedWidget)}
}

// Open implements Gateway.
func (g *HostedGateway) Open(_ context.Context, sessionID string, opts CheckoutOptions, cb Callbacks) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.widgets[sessionID] = hostedWidget{opts: opts, cb: cb}
	return nil
}

// Release implements Gateway.
func (g *HostedGateway) Release(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.widgets, sessionID)
}

// Options returns the widget options recorded for sessionID.
func (g *HostedGateway) Options(sessionID string) (CheckoutOptions, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, ok := g.widgets[sessionID]
	return w.opts, ok
}

// Complete invokes the completion hook registered for sessionID.
func (g *HostedGateway) Complete(ctx context.Context, sessionID string, resp GatewayResponse) error {
	cb, ok := g.callbacks(sessionID)
	if !ok || cb.OnComplete == nil {
		return ErrSessionNotFound
	}
	return cb.OnComplete(ctx, resp)
}

// Dismiss invokes the dismissal hook registered for sessionID.
func (g *HostedGateway) Dismiss(ctx context.Context, sessionID string) error {
	cb, ok := g.callbacks(sessionID)
	if !ok || cb.OnDismiss == nil {
		return ErrSessionNotFound
	}
	return cb.OnDismiss(ctx)
}

func (g *HostedGateway) callbacks(sessionID string) (Callbacks, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, ok := g.widgets[sessionID]
	return w.cb, ok
}
