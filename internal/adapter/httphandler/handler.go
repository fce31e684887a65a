package httphandler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/port"
	"github.com/niksmo/galeria/internal/core/service"
)

// GET /checkout/{outcome} is where the payment processor sends the buyer
// back: outcome is success, failure or pending (200 OK, 400 Bad request,
// 404 Not found, 409 Conflict, 500 Internal server error).

// outcomeStatus is the payment status implied by the return URL when the
// query carries none. Approval is never implied, it must come in the query.
var outcomeStatus = map[string]string{
	"success": "",
	"failure": "rejected",
	"pending": "pending",
}

type CheckoutHandler struct {
	completer port.PaymentCompleter
	onResult  func(domain.PaymentResult)
}

// RegisterCheckout mounts the return URLs. onResult, if set, is called with
// every settled result.
func RegisterCheckout(
	mux *http.ServeMux, completer port.PaymentCompleter, onResult func(domain.PaymentResult),
) {
	h := CheckoutHandler{completer, onResult}
	mux.HandleFunc("GET /checkout/{outcome}", h.GetReturn)
}

func (h CheckoutHandler) GetReturn(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.GetReturn"
	log := slog.With("op", op)

	outcome := r.PathValue("outcome")
	fallback, ok := outcomeStatus[outcome]
	if !ok {
		http.NotFound(w, r)
		return
	}

	res := paymentResult(r, fallback)
	if res.Status == "" {
		http.Error(w, "missing payment status", http.StatusBadRequest)
		log.Warn("return without payment status", "outcome", outcome)
		return
	}

	err := h.completer.CompletePayment(r.Context(), res)
	switch {
	case errors.Is(err, service.ErrUnknownReference):
		http.Error(w, "unknown checkout", http.StatusConflict)
		log.Warn("payment for another checkout", "reference", res.ExternalReference)
		return
	case err != nil:
		http.Error(w, "failed to complete payment", http.StatusInternalServerError)
		log.Error("failed to complete payment", "err", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := fmt.Fprintln(w, message(res.Status)); err != nil {
		log.Error("failed to write response body", "err", err)
	}

	log.Info("payment returned", "status", res.Status, "payment", res.PaymentID)
	if h.onResult != nil {
		h.onResult(res)
	}
}

func paymentResult(r *http.Request, fallback string) domain.PaymentResult {
	q := r.URL.Query()
	first := func(keys ...string) string {
		for _, k := range keys {
			if v := q.Get(k); v != "" && v != "null" {
				return v
			}
		}
		return ""
	}

	status := first("status", "collection_status")
	if status == "" {
		status = fallback
	}
	return domain.PaymentResult{
		Status:            status,
		PaymentID:         first("payment_id", "collection_id"),
		ExternalReference: first("external_reference"),
	}
}

func message(status string) string {
	switch status {
	case domain.PaymentApproved:
		return "¡Gracias por tu compra! El pago fue aprobado."
	case "pending", "in_process":
		return "Tu pago está pendiente de confirmación."
	default:
		return "El pago no pudo completarse. Tu carrito se mantiene."
	}
}
