package booking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iereview/landinPage/internal/bookingapi"
	"github.com/iereview/landinPage/pkg/logging"
)

func newTestRouter(f *fixture) http.Handler {
	r := chi.NewRouter()
	h := NewHandler(f.o, f.gateway.HostedGateway, logging.Discard())
	r.Route("/api/checkout", h.Routes)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp Response
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return w, resp
}

const customerJSON = `{"customerName":"Ravi Kumar","customerEmail":"ravi@example.com","customerPhone":"9876543210"}`

func TestHandler_CheckoutFlow(t *testing.T) {
	f := newFixture(t)
	f.api.initResps = []*bookingapi.InitializeBookingResponse{initOK("pay_123")}
	f.api.verifyResp = &bookingapi.VerifyPaymentResponse{Success: true, SchedulingURL: "https://calendly.com/x", BookingID: "bk_1"}
	router := newTestRouter(f)

	w, resp := doRequest(t, router, http.MethodPost, "/api/checkout", customerJSON)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if resp.Session == nil || resp.Session.Checkout == nil {
		t.Fatalf("expected checkout options, got %+v", resp)
	}
	if resp.Session.Checkout.OrderID != "order_1" {
		t.Errorf("expected order_1, got %q", resp.Session.Checkout.OrderID)
	}
	id := resp.Session.ID

	gr := `{"razorpay_order_id":"order_1","razorpay_payment_id":"rzp_pay_1","razorpay_signature":"sig_1"}`
	w, resp = doRequest(t, router, http.MethodPost, "/api/checkout/"+id+"/complete", gr)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if resp.Session.State != StateSucceeded {
		t.Errorf("expected succeeded, got %s", resp.Session.State)
	}
	if resp.Session.SchedulingURL != "" {
		t.Errorf("scheduling url revealed too early")
	}

	f.clock.Advance(2 * time.Second)
	_, resp = doRequest(t, router, http.MethodGet, "/api/checkout/"+id, "")
	if resp.Session.SchedulingURL != "https://calendly.com/x" {
		t.Errorf("expected scheduling url, got %q", resp.Session.SchedulingURL)
	}
	if resp.Session.CountdownRemaining != 5 {
		t.Errorf("expected countdown 5, got %d", resp.Session.CountdownRemaining)
	}

	w, resp = doRequest(t, router, http.MethodPost, "/api/checkout/"+id+"/cancel-countdown", "")
	if w.Code != http.StatusOK || resp.Cancelled == nil || !*resp.Cancelled {
		t.Fatalf("expected countdown cancelled, got %d %+v", w.Code, resp)
	}

	w, _ = doRequest(t, router, http.MethodDelete, "/api/checkout/"+id, "")
	if w.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	w, _ = doRequest(t, router, http.MethodGet, "/api/checkout/"+id, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestHandler_SlotFull(t *testing.T) {
	f := newFixture(t)
	f.api.initErr = &bookingapi.DomainError{Endpoint: bookingapi.EndpointInitializeBooking, Message: "Slot full"}
	router := newTestRouter(f)

	w, resp := doRequest(t, router, http.MethodPost, "/api/checkout", customerJSON)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, w.Code)
	}
	if resp.Loader == nil || resp.Loader.Text != "Slot full" {
		t.Errorf("expected Slot full loader, got %+v", resp.Loader)
	}
	if resp.Session == nil || resp.Session.Checkout != nil {
		t.Errorf("widget options must not be returned, got %+v", resp.Session)
	}
	if len(f.gateway.opens) != 0 {
		t.Errorf("expected widget not opened, got %d", len(f.gateway.opens))
	}
}

func TestHandler_ValidationError(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)

	w, resp := doRequest(t, router, http.MethodPost, "/api/checkout", `{"customerName":"","customerEmail":"ravi@example.com","customerPhone":"9876543210"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if resp.Errors[FieldCustomerName] != "Name is required" {
		t.Errorf("expected name error, got %q", resp.Errors[FieldCustomerName])
	}
	if f.api.initCount() != 0 {
		t.Errorf("expected no upstream call")
	}
}

func TestHandler_DismissAndUnknownSession(t *testing.T) {
	f := newFixture(t)
	f.api.initResps = []*bookingapi.InitializeBookingResponse{initOK("pay_9")}
	router := newTestRouter(f)

	_, resp := doRequest(t, router, http.MethodPost, "/api/checkout", customerJSON)
	id := resp.Session.ID

	w, resp := doRequest(t, router, http.MethodPost, "/api/checkout/"+id+"/dismiss", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if resp.Session.State != StateFailed || resp.Session.Result.Reason != MsgUserCancelled {
		t.Errorf("expected cancelled session, got %+v", resp.Session)
	}

	w, _ = doRequest(t, router, http.MethodPost, "/api/checkout/"+id+"/complete", `{}`)
	if w.Code != http.StatusConflict {
		t.Errorf("expected status %d after dismissal, got %d", http.StatusConflict, w.Code)
	}

	w, _ = doRequest(t, router, http.MethodPost, "/api/checkout/nope/dismiss", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}
