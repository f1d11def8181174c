package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/iereview/landinPage/pkg/logging"
)

// Enquiry is a contact form submission forwarded to the operator.
type Enquiry struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Booking describes a paid consultation.
type Booking struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	BookingID     string
	PaymentID     string
	SchedulingURL string
}

// Service emails the site operator about enquiries and paid bookings.
// With no sender or no operator address every call is a no-op.
type Service struct {
	email    EmailSender
	operator string
	renderer Renderer
	logger   *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, operatorEmail string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:    email,
		operator: strings.TrimSpace(operatorEmail),
		logger:   logger,
	}
}

func (s *Service) enabled() bool {
	return s != nil && s.email != nil && s.operator != ""
}

// NotifyContactEnquiry emails the operator a copy of a contact submission.
func (s *Service) NotifyContactEnquiry(ctx context.Context, e Enquiry) error {
	if !s.enabled() {
		return nil
	}
	body, err := s.renderer.Render("enquiry", enquiryTemplate, e)
	if err != nil {
		return err
	}
	htmlBody, err := s.renderer.RenderHTML("enquiry.html", enquiryHTMLTemplate, e)
	if err != nil {
		return err
	}
	// Replies go straight to the visitor.
	msg := EmailMessage{
		To:          s.operator,
		ToName:      operatorName,
		ReplyTo:     e.Email,
		ReplyToName: e.Name,
		Subject:     fmt.Sprintf("New enquiry: %s", e.Name),
		Body:        body,
		HTML:        htmlBody,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: enquiry email: %w", err)
	}
	return nil
}

// NotifyBookingConfirmed emails the operator once a payment was verified.
func (s *Service) NotifyBookingConfirmed(ctx context.Context, b Booking) error {
	if !s.enabled() {
		return nil
	}
	body, err := s.renderer.Render("booking", bookingTemplate, b)
	if err != nil {
		return err
	}
	msg := EmailMessage{
		To:          s.operator,
		ToName:      operatorName,
		ReplyTo:     b.CustomerEmail,
		ReplyToName: b.CustomerName,
		Subject:     fmt.Sprintf("Consultation booked: %s", b.CustomerName),
		Body:        body,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: booking email: %w", err)
	}
	return nil
}
