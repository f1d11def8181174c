package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iereview/landinPage/internal/bookingapi"
	"github.com/iereview/landinPage/internal/loader"
	"github.com/iereview/landinPage/pkg/logging"
)

// Handler serves the checkout endpoints the browser drives.
type Handler struct {
	orchestrator *Orchestrator
	gateway      *HostedGateway
	logger       *logging.Logger
}

// NewHandler creates a checkout handler. gateway must be the HostedGateway
// the orchestrator opens widgets on.
func NewHandler(o *Orchestrator, gateway *HostedGateway, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{orchestrator: o, gateway: gateway, logger: logger}
}

// Response is the envelope for every checkout endpoint.
type Response struct {
	Session   *View             `json:"session,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
	Loader    *loader.View      `json:"loader,omitempty"`
	Error     string            `json:"error,omitempty"`
	Cancelled *bool             `json:"cancelled,omitempty"`
}

// Routes mounts the checkout endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Close)
		r.Post("/complete", h.Complete)
		r.Post("/dismiss", h.Dismiss)
		r.Post("/cancel-countdown", h.CancelCountdown)
	})
}

// Create handles POST /api/checkout.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var customer Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s, err := h.orchestrator.InitializePayment(r.Context(), customer)
	if err != nil {
		h.writeError(w, s, err)
		return
	}
	view := s.View()
	writeJSON(w, http.StatusCreated, Response{Session: &view})
}

// Get handles GET /api/checkout/{id}. The page polls it to learn when the
// scheduling link is revealed and when the redirect is due.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.orchestrator.Session(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, nil, err)
		return
	}
	view := s.View()
	writeJSON(w, http.StatusOK, Response{Session: &view})
}

// Complete handles POST /api/checkout/{id}/complete, relaying the widget's
// completion handler.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var gr GatewayResponse
	if err := json.NewDecoder(r.Body).Decode(&gr); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.gateway.Complete(r.Context(), id, gr); err != nil {
		s, _ := h.orchestrator.Session(id)
		h.writeError(w, s, err)
		return
	}
	h.writeSession(w, id)
}

// Dismiss handles POST /api/checkout/{id}/dismiss, relaying the widget's
// dismissal hook.
func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.gateway.Dismiss(r.Context(), id); err != nil {
		s, _ := h.orchestrator.Session(id)
		h.writeError(w, s, err)
		return
	}
	h.writeSession(w, id)
}

// CancelCountdown handles POST /api/checkout/{id}/cancel-countdown.
func (h *Handler) CancelCountdown(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cancelled, err := h.orchestrator.CancelCountdown(id)
	if err != nil {
		h.writeError(w, nil, err)
		return
	}
	s, err := h.orchestrator.Session(id)
	if err != nil {
		h.writeError(w, nil, err)
		return
	}
	view := s.View()
	writeJSON(w, http.StatusOK, Response{Session: &view, Cancelled: &cancelled})
}

// Close handles DELETE /api/checkout/{id}.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.orchestrator.Close(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeSession(w http.ResponseWriter, id string) {
	s, err := h.orchestrator.Session(id)
	if err != nil {
		h.writeError(w, nil, err)
		return
	}
	view := s.View()
	writeJSON(w, http.StatusOK, Response{Session: &view})
}

func (h *Handler) writeError(w http.ResponseWriter, s *Session, err error) {
	resp := Response{Error: err.Error()}
	var invalid *ValidationError
	switch {
	case errors.As(err, &invalid):
		resp.Errors = invalid.Fields
		resp.Error = "Please fix the highlighted fields."
	case errors.Is(err, ErrAttemptInFlight):
		resp.Error = "A payment is already being set up. Please wait."
	}
	if s != nil {
		view := s.View()
		resp.Session = &view
		resp.Loader = view.Loader
		if view.Result != nil && view.Result.Reason != "" {
			resp.Error = view.Result.Reason
		}
	} else {
		lv := loader.Error(resp.Error, "", loader.PaymentErrorTTL).View()
		resp.Loader = &lv
	}
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("checkout request failed", "error", err)
	}
	writeJSON(w, status, resp)
}

// StatusFor maps an orchestrator error to an HTTP status.
func StatusFor(err error) int {
	var (
		invalid  *ValidationError
		domain   *bookingapi.DomainError
		netErr   *bookingapi.NetworkError
		protoErr *bookingapi.ProtocolError
	)
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAttemptInFlight), errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrPaymentIDMissing):
		return http.StatusUnprocessableEntity
	case errors.As(err, &domain):
		return http.StatusUnprocessableEntity
	case errors.As(err, &netErr), errors.As(err, &protoErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
