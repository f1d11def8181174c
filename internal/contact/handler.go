package contact

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iereview/landinPage/internal/bookingapi"
	"github.com/iereview/landinPage/internal/loader"
	"github.com/iereview/landinPage/pkg/logging"
)

// Handler serves the JSON contact endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a contact handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// SubmitResponse is returned by POST /api/contact.
type SubmitResponse struct {
	OK          bool         `json:"ok"`
	Toast       *ToastView   `json:"toast,omitempty"`
	Loader      *loader.View `json:"loader,omitempty"`
	FieldErrors FieldErrors  `json:"errors,omitempty"`
}

// ToastView is the JSON shape of a Toast.
type ToastView struct {
	Message        string `json:"message"`
	DismissAfterMs int64  `json:"dismissAfterMs"`
}

// ValidateResponse is returned by POST /api/contact/validate.
type ValidateResponse struct {
	Errors    FieldErrors `json:"errors"`
	CanSubmit bool        `json:"canSubmit"`
}

// Submit handles POST /api/contact.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var form Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.logger.Warn("contact: failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	toast, err := h.service.Submit(r.Context(), form)
	if err != nil {
		view := h.service.ErrorState(err).View()
		resp := SubmitResponse{Loader: &view}
		var invalid *ValidationError
		if errors.As(err, &invalid) {
			resp.FieldErrors = invalid.Fields
		}
		writeJSON(w, StatusFor(err), resp)
		return
	}

	writeJSON(w, http.StatusOK, SubmitResponse{
		OK: true,
		Toast: &ToastView{
			Message:        toast.Message,
			DismissAfterMs: toast.DismissAfter.Milliseconds(),
		},
	})
}

// Validate handles POST /api/contact/validate. It lets the browser refresh
// field messages and the submit control on each keystroke.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var form Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	errs := form.Errors()
	writeJSON(w, http.StatusOK, ValidateResponse{Errors: errs, CanSubmit: CanSubmit(form, errs)})
}

// StatusFor maps a Submit error to an HTTP status.
func StatusFor(err error) int {
	var (
		invalid  *ValidationError
		rejected *RejectedError
		netErr   *bookingapi.NetworkError
		protoErr *bookingapi.ProtocolError
	)
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.Is(err, ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.As(err, &rejected), errors.As(err, &netErr), errors.As(err, &protoErr):
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
