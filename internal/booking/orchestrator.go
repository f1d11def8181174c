// Package booking runs the paid consultation checkout: initialize the
// booking, let the visitor pay in the checkout widget, verify the payment
// and reveal the scheduling link.
package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iereview/landinPage/internal/bookingapi"
	"github.com/iereview/landinPage/internal/guard"
	"github.com/iereview/landinPage/internal/loader"
	"github.com/iereview/landinPage/internal/notify"
	"github.com/iereview/landinPage/pkg/logging"
)

// API is the subset of the booking API the orchestrator calls.
type API interface {
	InitializeBooking(ctx context.Context, req bookingapi.InitializeBookingRequest) (*bookingapi.InitializeBookingResponse, error)
	VerifyPayment(ctx context.Context, req bookingapi.VerifyPaymentRequest) (*bookingapi.VerifyPaymentResponse, error)
	NotifyPaymentFailed(ctx context.Context, req bookingapi.PaymentFailedRequest) error
}

// Notifier is told about confirmed bookings.
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, b notify.Booking) error
}

// Observer counts state transitions.
type Observer interface {
	ObserveTransition(state string)
}

// Config holds the checkout settings.
type Config struct {
	Amount       int
	BrandName    string
	Description  string
	ThemeColor   string
	SuccessDelay time.Duration
	Countdown    time.Duration
	SessionTTL   time.Duration
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithGuard sets the cross-replica in-flight guard.
func WithGuard(g guard.Guard) Option { return func(o *Orchestrator) { o.guard = g } }

// WithNotifier sets who is told about confirmed bookings.
func WithNotifier(n Notifier) Option { return func(o *Orchestrator) { o.notifier = n } }

// WithObserver sets the state transition metrics sink.
func WithObserver(obs Observer) Option { return func(o *Orchestrator) { o.metrics = obs } }

// WithClock replaces the wall clock, for tests.
func WithClock(c Clock) Option { return func(o *Orchestrator) { o.clock = c } }

// Orchestrator sequences initialize, checkout and verify for each session.
type Orchestrator struct {
	api      API
	gateway  Gateway
	guard    guard.Guard
	notifier Notifier
	metrics  Observer
	clock    Clock
	store    *Store
	cfg      Config
	logger   *logging.Logger

	wg sync.WaitGroup
}

// NewOrchestrator creates an orchestrator. Zero Config durations fall back
// to a 2s success delay, a 5s countdown and a 30m session TTL.
func NewOrchestrator(api API, gateway Gateway, cfg Config, logger *logging.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Amount <= 0 {
		cfg.Amount = 999
	}
	if cfg.SuccessDelay <= 0 {
		cfg.SuccessDelay = 2 * time.Second
	}
	if cfg.Countdown <= 0 {
		cfg.Countdown = 5 * time.Second
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	o := &Orchestrator{
		api:     api,
		gateway: gateway,
		clock:   realClock{},
		store:   NewStore(),
		cfg:     cfg,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Session looks up a live session.
func (o *Orchestrator) Session(id string) (*Session, error) {
	s, ok := o.store.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// InitializePayment validates the customer, creates the booking upstream
// and opens the checkout widget. Validation and in-flight errors return no
// session. Upstream failures return the failed session alongside the error;
// the widget is never opened unless initialize-booking reported success.
func (o *Orchestrator) InitializePayment(ctx context.Context, customer Customer) (*Session, error) {
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	customer = customer.normalized()
	key := guard.Key("checkout", customer.Email, customer.Phone)

	now := o.clock.Now()
	s := &Session{ID: uuid.NewString(), CreatedAt: now, state: StateIdle, customer: customer, customerKey: key, updatedAt: now}
	// The store check holds for the whole session lifetime; the guard lease
	// below only bounds concurrent initializes across replicas.
	if !o.store.Claim(s) {
		return nil, ErrAttemptInFlight
	}

	if o.guard != nil {
		r, err := o.guard.Acquire(ctx, key)
		switch {
		case errors.Is(err, guard.ErrInFlight):
			o.store.Delete(s.ID)
			return nil, ErrAttemptInFlight
		case err != nil:
			o.logger.Warn("booking: in-flight guard unavailable", "error", err)
		default:
			s.mu.Lock()
			s.release = r
			s.mu.Unlock()
		}
	}

	s.mu.Lock()
	o.transition(s, StateInitializing, loader.Loading("Initializing payment...", "Please wait"))
	s.mu.Unlock()

	resp, err := o.api.InitializeBooking(ctx, bookingapi.InitializeBookingRequest{
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		Amount:        o.cfg.Amount,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s, ErrSessionNotFound
	}
	if err != nil {
		o.logger.Error("booking: initialize failed", "session_id", s.ID, "error", err)
		o.fail(s, bookingapi.UserMessage(err, MsgInitializeFailed), err)
		return s, err
	}

	// Captured here, by value, for the completion callback.
	paymentID := resp.PaymentID.String()
	s.booking = BookingSession{
		PaymentID:     paymentID,
		OrderID:       resp.OrderID.String(),
		RazorpayKeyID: resp.RazorpayKeyID,
		Amount:        resp.Amount,
		Currency:      resp.Currency,
	}
	opts := CheckoutOptions{
		Key:         resp.RazorpayKeyID,
		Amount:      resp.Amount,
		Currency:    resp.Currency,
		Name:        o.cfg.BrandName,
		Description: o.cfg.Description,
		OrderID:     s.booking.OrderID,
		Prefill:     Prefill{Name: customer.Name, Email: customer.Email, Contact: customer.Phone},
		Theme:       Theme{Color: o.cfg.ThemeColor},
	}
	sessionID := s.ID
	callbacks := Callbacks{
		OnComplete: func(ctx context.Context, gr GatewayResponse) error {
			return o.HandlePaymentComplete(ctx, sessionID, gr, paymentID)
		},
		OnDismiss: func(ctx context.Context) error {
			return o.HandlePaymentFailure(ctx, sessionID, paymentID)
		},
	}
	if err := o.gateway.Open(ctx, sessionID, opts, callbacks); err != nil {
		o.logger.Error("booking: failed to open checkout", "session_id", sessionID, "error", err)
		o.fail(s, MsgInitializeFailed, err)
		return s, err
	}
	s.checkout = &opts
	o.transition(s, StateAwaitingGateway, loader.Loading("Complete your payment", "The secure checkout window is open"))
	o.logger.Info("checkout opened", "session_id", sessionID, "order_id", opts.OrderID, "payment_id", paymentID)
	return s, nil
}

// HandlePaymentComplete is the widget's completion hook. paymentID is the
// value captured when initialize-booking resolved, never re-read from the
// session.
func (o *Orchestrator) HandlePaymentComplete(ctx context.Context, sessionID string, gr GatewayResponse, paymentID string) error {
	return o.VerifyPayment(ctx, sessionID, gr, paymentID)
}

// VerifyPayment posts the gateway's signed fields to verify-payment. A
// blank paymentID fails the session without calling the endpoint. On
// success the scheduling link is revealed after the success delay and the
// auto-redirect countdown starts.
func (o *Orchestrator) VerifyPayment(ctx context.Context, sessionID string, gr GatewayResponse, paymentID string) error {
	s, err := o.Session(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.state != StateAwaitingGateway {
		s.mu.Unlock()
		return ErrInvalidState
	}
	if strings.TrimSpace(paymentID) == "" {
		o.logger.Error("booking: completion without payment id", "session_id", sessionID)
		o.fail(s, MsgPaymentIDMissing, ErrPaymentIDMissing)
		s.mu.Unlock()
		return ErrPaymentIDMissing
	}
	o.transition(s, StateVerifying, loader.Loading("Verifying payment...", "Please don't close this window"))
	customer := s.customer
	s.mu.Unlock()

	resp, err := o.api.VerifyPayment(ctx, bookingapi.VerifyPaymentRequest{
		RazorpayOrderID:   gr.RazorpayOrderID,
		RazorpayPaymentID: gr.RazorpayPaymentID,
		RazorpaySignature: gr.RazorpaySignature,
		PaymentID:         paymentID,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionNotFound
	}
	if err != nil {
		o.logger.Error("booking: verify failed", "session_id", sessionID, "payment_id", paymentID, "error", err)
		o.fail(s, bookingapi.UserMessage(err, MsgVerifyFailed), err)
		return err
	}

	s.result = &Result{
		Succeeded:     true,
		SchedulingURL: resp.SchedulingURL,
		BookingID:     resp.BookingID.String(),
	}
	s.releaseLease()
	o.transition(s, StateSucceeded, loader.Success("Payment successful!", "Your consultation is booked"))
	o.logger.Info("payment verified", "session_id", sessionID, "payment_id", paymentID, "booking_id", s.result.BookingID)

	s.reveal = o.clock.AfterFunc(o.cfg.SuccessDelay, func() { o.revealSchedulingLink(sessionID) })

	o.notifyAsync(ctx, notify.Booking{
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		BookingID:     s.result.BookingID,
		PaymentID:     paymentID,
		SchedulingURL: s.result.SchedulingURL,
	})
	return nil
}

// HandlePaymentFailure is the widget's dismissal hook. The session fails
// with ErrUserCancelled and payment-failed is notified in the background;
// that call's errors are logged and dropped.
func (o *Orchestrator) HandlePaymentFailure(ctx context.Context, sessionID, paymentID string) error {
	s, err := o.Session(sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.state != StateAwaitingGateway {
		s.mu.Unlock()
		return ErrInvalidState
	}
	o.fail(s, MsgUserCancelled, ErrUserCancelled)
	s.mu.Unlock()

	o.logger.Info("checkout dismissed", "session_id", sessionID, "payment_id", paymentID)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		err := o.api.NotifyPaymentFailed(nctx, bookingapi.PaymentFailedRequest{PaymentID: paymentID, Error: MsgUserCancelled})
		if err != nil {
			o.logger.Warn("booking: payment-failed notification dropped", "session_id", sessionID, "error", err)
		}
	}()
	return nil
}

// CancelCountdown stops the pending auto-redirect. It reports whether a
// countdown was running.
func (o *Orchestrator) CancelCountdown(sessionID string) (bool, error) {
	s, err := o.Session(sessionID)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stopped := s.countdown.Stop()
	if stopped {
		s.updatedAt = o.clock.Now()
		o.logger.Info("auto-redirect cancelled", "session_id", sessionID)
	}
	return stopped, nil
}

// Close dismisses the modal: timers stop, the lease is released and the
// session is forgotten, returning the flow to idle. Results of calls still
// in flight are discarded.
func (o *Orchestrator) Close(sessionID string) error {
	s, err := o.Session(sessionID)
	if err != nil {
		return err
	}
	o.closeSession(s)
	return nil
}

// Sweep closes sessions idle for longer than the session TTL and returns
// how many were removed.
func (o *Orchestrator) Sweep() int {
	stale := o.store.idleSince(o.clock.Now().Add(-o.cfg.SessionTTL))
	for _, s := range stale {
		o.closeSession(s)
	}
	return len(stale)
}

// Wait blocks until background notifications finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) closeSession(s *Session) {
	s.mu.Lock()
	s.closed = true
	s.stopTimers()
	s.releaseLease()
	if o.metrics != nil {
		o.metrics.ObserveTransition(string(StateIdle))
	}
	s.mu.Unlock()

	o.gateway.Release(s.ID)
	o.store.Delete(s.ID)
	o.logger.Debug("checkout session closed", "session_id", s.ID)
}

// revealSchedulingLink runs after the success delay.
func (o *Orchestrator) revealSchedulingLink(sessionID string) {
	s, ok := o.store.Get(sessionID)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateSucceeded {
		return
	}
	s.reveal = nil
	s.revealed = true
	s.loader = nil
	o.startCountdown(s)
}

// startCountdown replaces any running countdown. Callers hold s.mu.
func (o *Orchestrator) startCountdown(s *Session) {
	s.countdown.Stop()
	sessionID := s.ID
	s.redirectDue = false
	s.countdown = StartCountdown(o.clock, o.cfg.Countdown, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		s.redirectDue = true
		s.updatedAt = o.clock.Now()
		o.logger.Info("auto-redirect due", "session_id", sessionID)
	})
	s.updatedAt = o.clock.Now()
}

// fail moves s to failed. Callers hold s.mu.
func (o *Orchestrator) fail(s *Session, reason string, cause error) {
	s.result = &Result{Reason: reason, Err: cause}
	s.releaseLease()
	o.transition(s, StateFailed, loader.Error(reason, "Please try again", loader.PaymentErrorTTL))
}

// transition records a state change. Callers hold s.mu.
func (o *Orchestrator) transition(s *Session, to State, overlay loader.State) {
	from := s.state
	s.state = to
	s.loader = &overlay
	s.updatedAt = o.clock.Now()
	if o.metrics != nil {
		o.metrics.ObserveTransition(string(to))
	}
	o.logger.Debug("checkout transition", "session_id", s.ID, "from", string(from), "to", string(to))
}

func (o *Orchestrator) notifyAsync(ctx context.Context, b notify.Booking) {
	if o.notifier == nil {
		return
	}
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := o.notifier.NotifyBookingConfirmed(nctx, b); err != nil {
			o.logger.Warn("booking: operator notification failed", "booking_id", b.BookingID, "error", err)
		}
	}()
}
