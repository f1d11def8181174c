package booking

import (
	"context"
	"sync"
	"time"

	"github.com/iereview/landinPage/internal/loader"
	"github.com/iereview/landinPage/pkg/logging"
)

// State is a checkout session's position in the payment flow.
type State string

const (
	StateIdle            State = "idle"
	StateInitializing    State = "initializing"
	StateAwaitingGateway State = "awaiting_gateway"
	StateVerifying       State = "verifying"
	StateSucceeded       State = "succeeded"
	StateFailed          State = "failed"
)

// Terminal reports whether s ends the attempt.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// BookingSession is the order created by initialize-booking.
type BookingSession struct {
	PaymentID     string
	OrderID       string
	RazorpayKeyID string
	Amount        int64
	Currency      string
}

// Result is the terminal outcome of an attempt. Exactly one of the success
// or failure fields is set.
type Result struct {
	Succeeded     bool
	SchedulingURL string
	BookingID     string
	Reason        string
	Err           error
}

// Session is one checkout attempt.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu          sync.Mutex
	state       State
	customer    Customer
	customerKey string
	booking     BookingSession
	result      *Result
	loader      *loader.State
	checkout    *CheckoutOptions
	revealed    bool
	redirectDue bool
	reveal      Timer
	countdown   *Countdown
	release     func()
	closed      bool
	updatedAt   time.Time
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the terminal outcome, or nil while the attempt is live.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	r := *s.result
	return &r
}

// SchedulingURL returns the scheduling link once the success delay has
// elapsed.
func (s *Session) SchedulingURL() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.revealed || s.result == nil {
		return "", false
	}
	return s.result.SchedulingURL, true
}

// RedirectDue reports whether the countdown ran out and the scheduling
// link should be opened in a new browsing context.
func (s *Session) RedirectDue() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redirectDue
}

// CountdownRemaining returns the seconds left before the auto-redirect,
// or 0 when no countdown is running.
func (s *Session) CountdownRemaining() int {
	s.mu.Lock()
	c := s.countdown
	s.mu.Unlock()
	return c.Remaining()
}

// stopTimers cancels the reveal timer and countdown. Callers hold s.mu.
func (s *Session) stopTimers() {
	if s.reveal != nil {
		s.reveal.Stop()
		s.reveal = nil
	}
	s.countdown.Stop()
}

// releaseLease drops the in-flight lease. Callers hold s.mu.
func (s *Session) releaseLease() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

// View is the JSON shape of a session returned to the browser.
type View struct {
	ID                 string           `json:"id"`
	State              State            `json:"state"`
	Loader             *loader.View     `json:"loader,omitempty"`
	Checkout           *CheckoutOptions `json:"checkout,omitempty"`
	PaymentID          string           `json:"paymentId,omitempty"`
	Result             *ResultView      `json:"result,omitempty"`
	SchedulingURL      string           `json:"schedulingUrl,omitempty"`
	CountdownRemaining int              `json:"countdown,omitempty"`
	RedirectDue        bool             `json:"redirectDue"`
}

// ResultView is the JSON shape of a Result.
type ResultView struct {
	Success   bool   `json:"success"`
	BookingID string `json:"bookingId,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// View snapshots the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:          s.ID,
		State:       s.state,
		PaymentID:   s.booking.PaymentID,
		RedirectDue: s.redirectDue,
	}
	if s.loader != nil {
		lv := s.loader.View()
		v.Loader = &lv
	}
	if s.checkout != nil && s.state == StateAwaitingGateway {
		opts := *s.checkout
		v.Checkout = &opts
	}
	if s.result != nil {
		v.Result = &ResultView{
			Success:   s.result.Succeeded,
			BookingID: s.result.BookingID,
			Reason:    s.result.Reason,
		}
		if s.revealed {
			v.SchedulingURL = s.result.SchedulingURL
		}
	}
	v.CountdownRemaining = s.countdown.Remaining()
	return v
}

// Store keeps live sessions in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Claim stores s unless another session for the same customer is still
// live (not yet succeeded or failed). It reports whether s was stored.
func (st *Store) Claim(s *Session) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, other := range st.sessions {
		if other.customerKey != s.customerKey {
			continue
		}
		other.mu.Lock()
		live := !other.closed && !other.state.Terminal()
		other.mu.Unlock()
		if live {
			return false
		}
	}
	st.sessions[s.ID] = s
	return true
}

// Get returns the session stored under id.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete forgets the session stored under id.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// idleSince returns sessions untouched since cutoff.
func (st *Store) idleSince(cutoff time.Time) []*Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	var stale []*Session
	for _, s := range st.sessions {
		s.mu.Lock()
		if s.updatedAt.Before(cutoff) {
			stale = append(stale, s)
		}
		s.mu.Unlock()
	}
	return stale
}

// Sweeper closes sessions that have been idle longer than the session TTL.
type Sweeper struct {
	orchestrator *Orchestrator
	interval     time.Duration
	logger       *logging.Logger
}

// NewSweeper creates a sweeper that checks every interval.
func NewSweeper(o *Orchestrator, interval time.Duration, logger *logging.Logger) *Sweeper {
	if logger == nil {
		logger = logging.Default()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{orchestrator: o, interval: interval, logger: logger}
}

// Start runs the sweeper. Blocks until ctx is cancelled.
func (w *Sweeper) Start(ctx context.Context) {
	w.logger.Info("starting checkout session sweeper", "interval", w.interval.String())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("checkout session sweeper shutting down")
			return
		case <-ticker.C:
			if n := w.orchestrator.Sweep(); n > 0 {
				w.logger.Info("swept idle checkout sessions", "count", n, "remaining", w.orchestrator.store.Len())
			}
		}
	}
}
