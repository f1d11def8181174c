package site

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/iereview/landinPage/internal/contact"
	"github.com/iereview/landinPage/internal/loader"
	"github.com/iereview/landinPage/pkg/logging"
)

// ContactService submits contact enquiries.
type ContactService interface {
	Submit(ctx context.Context, form contact.Form) (*contact.Toast, error)
	ErrorState(err error) loader.State
}

// Handler serves the HTML pages.
type Handler struct {
	renderer *Renderer
	contact  ContactService
	logger   *logging.Logger
}

// NewHandler creates a page handler.
func NewHandler(renderer *Renderer, contactSvc ContactService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{renderer: renderer, contact: contactSvc, logger: logger}
}

// Page returns a handler rendering sections inside the shared layout.
func (h *Handler) Page(title string, sections ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, http.StatusOK, h.renderer.NewPage(title, sections...))
	}
}

// SubmitContact handles the form-encoded POST /contact used when the page
// runs without JavaScript. It re-renders the contact page with field
// errors, or with a cleared form and the success toast.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	form := contact.Form{
		Name:    r.PostFormValue(contact.FieldName),
		Email:   r.PostFormValue(contact.FieldEmail),
		Phone:   r.PostFormValue(contact.FieldPhone),
		Message: r.PostFormValue(contact.FieldMessage),
	}

	page := h.renderer.NewPage("Contact", SectionContact)
	toast, err := h.contact.Submit(r.Context(), form)
	if err != nil {
		page.Contact.Form = form
		var invalid *contact.ValidationError
		if errors.As(err, &invalid) {
			page.Contact.Errors = invalid.Fields
		} else {
			page.Contact.CanSubmit = true
		}
		view := h.contact.ErrorState(err).View()
		page.Contact.Loader = &view
		h.render(w, contact.StatusFor(err), page)
		return
	}

	page.Contact.Toast = toast.Message
	page.Contact.ToastMs = toast.DismissAfter.Milliseconds()
	h.render(w, http.StatusOK, page)
}

// NotFound renders a plain 404.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "page not found", http.StatusNotFound)
}

func (h *Handler) render(w http.ResponseWriter, status int, page *Page) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page); err != nil {
		h.logger.Error("failed to render page", "page", page.Title, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
