package contact

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/iereview/landinPage/internal/bookingapi"
	"github.com/iereview/landinPage/internal/guard"
	"github.com/iereview/landinPage/internal/loader"
	"github.com/iereview/landinPage/internal/notify"
	"github.com/iereview/landinPage/pkg/logging"
)

// SuccessToast is shown after the API accepted an enquiry.
const SuccessToast = "Form submitted successfully!"

// fallbackError is shown when neither the API nor the transport gave us a
// better message.
const fallbackError = "Failed to submit form. Please try again."

// Submitter relays enquiries to the booking API.
type Submitter interface {
	SubmitForm(ctx context.Context, req bookingapi.SubmitFormRequest) (*bookingapi.SubmitFormResponse, error)
}

// Notifier is told about accepted enquiries.
type Notifier interface {
	NotifyContactEnquiry(ctx context.Context, e notify.Enquiry) error
}

// Observer counts submission outcomes.
type Observer interface {
	ObserveContact(outcome string)
}

// Toast is the transient confirmation shown after a successful submission.
type Toast struct {
	Message      string
	DismissAfter time.Duration
}

// Service validates and relays contact enquiries.
type Service struct {
	api      Submitter
	guard    guard.Guard
	notifier Notifier
	metrics  Observer
	city     string
	toastTTL time.Duration
	logger   *logging.Logger

	wg sync.WaitGroup
}

// Options tunes a Service. Zero values fall back to defaults.
type Options struct {
	City     string
	ToastTTL time.Duration
	Notifier Notifier
	Metrics  Observer
}

// NewService creates a contact service. g may be nil to disable the
// in-flight guard.
func NewService(api Submitter, g guard.Guard, opts Options, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if opts.City == "" {
		opts.City = "NA"
	}
	if opts.ToastTTL <= 0 {
		opts.ToastTTL = 3 * time.Second
	}
	return &Service{
		api:      api,
		guard:    g,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		city:     opts.City,
		toastTTL: opts.ToastTTL,
		logger:   logger,
	}
}

// Submit validates form and relays it. It returns a toast on success and
// one of *ValidationError, ErrSubmissionInFlight, *RejectedError or a
// bookingapi error otherwise.
func (s *Service) Submit(ctx context.Context, form Form) (*Toast, error) {
	if errs := form.Errors(); !CanSubmit(form, errs) {
		s.observe("invalid")
		return nil, &ValidationError{Fields: errs}
	}

	if s.guard != nil {
		release, err := s.guard.Acquire(ctx, guard.Key("contact", form.Email, form.Phone))
		if errors.Is(err, guard.ErrInFlight) {
			s.observe("in_flight")
			return nil, ErrSubmissionInFlight
		}
		if err != nil {
			// A broken guard backend should not block enquiries.
			s.logger.Warn("contact: in-flight guard unavailable", "error", err)
		} else {
			defer release()
		}
	}

	req := bookingapi.SubmitFormRequest{
		FullName:    strings.TrimSpace(form.Name),
		PhoneNumber: form.Phone,
		Email:       strings.TrimSpace(form.Email),
		City:        s.city,
		Subject:     strings.TrimSpace(form.Message),
	}
	resp, err := s.api.SubmitForm(ctx, req)
	if err != nil {
		s.observe("error")
		s.logger.Error("contact: submit form failed", "error", err)
		return nil, err
	}
	if resp.Message != bookingapi.SubmitFormSuccessMessage {
		s.observe("rejected")
		s.logger.Warn("contact: submission rejected", "message", resp.Message)
		return nil, &RejectedError{Message: strings.TrimSpace(resp.Message)}
	}

	s.observe("success")
	s.logger.Info("contact enquiry submitted", "email", req.Email)
	s.notifyAsync(ctx, notify.Enquiry{
		Name:    req.FullName,
		Email:   req.Email,
		Phone:   req.PhoneNumber,
		Message: req.Subject,
	})
	return &Toast{Message: SuccessToast, DismissAfter: s.toastTTL}, nil
}

// ErrorState maps a Submit error to the overlay shown to the visitor.
func (s *Service) ErrorState(err error) loader.State {
	return loader.Error(UserMessage(err), "", loader.FormErrorTTL)
}

// Wait blocks until background notifications finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// UserMessage is the text shown for a failed submission.
func UserMessage(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}
	if errors.Is(err, ErrSubmissionInFlight) {
		return "Your message is already being sent."
	}
	var invalid *ValidationError
	if errors.As(err, &invalid) {
		return "Please fix the highlighted fields."
	}
	return bookingapi.UserMessage(err, fallbackError)
}

func (s *Service) notifyAsync(ctx context.Context, e notify.Enquiry) {
	if s.notifier == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := s.notifier.NotifyContactEnquiry(nctx, e); err != nil {
			s.logger.Warn("contact: operator notification failed", "error", err)
		}
	}()
}

func (s *Service) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveContact(outcome)
	}
}
