// Package loader describes the full-screen status overlay shown while a
// contact or checkout request is in flight.
package loader

import "time"

// Status is one of loading, success or error.
type Status string

const (
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Default auto-dismiss timeouts.
const (
	FormErrorTTL    = 3 * time.Second
	PaymentErrorTTL = 5 * time.Second
)

// State is the overlay content. DismissAfter of zero means it stays until
// the next transition.
type State struct {
	Status       Status
	Text         string
	Subtext      string
	DismissAfter time.Duration
}

func Loading(text, subtext string) State {
	return State{Status: StatusLoading, Text: text, Subtext: subtext}
}

func Success(text, subtext string) State {
	return State{Status: StatusSuccess, Text: text, Subtext: subtext}
}

func Error(text, subtext string, dismissAfter time.Duration) State {
	return State{Status: StatusError, Text: text, Subtext: subtext, DismissAfter: dismissAfter}
}

// View is the wire shape of State.
type View struct {
	Status         Status `json:"status"`
	Text           string `json:"text"`
	Subtext        string `json:"subtext,omitempty"`
	DismissAfterMs int64  `json:"dismissAfterMs,omitempty"`
}

// View converts s for JSON responses and templates.
func (s State) View() View {
	return View{
		Status:         s.Status,
		Text:           s.Text,
		Subtext:        s.Subtext,
		DismissAfterMs: s.DismissAfter.Milliseconds(),
	}
}
