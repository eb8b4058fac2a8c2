package http

import (
	"encoding/json"
	"museum-ticket/common/errs"
	"museum-ticket/model"
	"museum-ticket/service"
	"net/http"
)

type OrderHttp struct {
	Lifecycle *service.OrderLifecycle
}

func RegisterOrderHttp(mux *http.ServeMux, lifecycle *service.OrderLifecycle) *OrderHttp {
	in := &OrderHttp{Lifecycle: lifecycle}

	mux.HandleFunc("POST /api/orders/confirm", in.confirm)

	return in
}

// confirm is called by the checkout page once the provider reports success.
// Retries with the same handle return the same order.
func (in OrderHttp) confirm(w http.ResponseWriter, r *http.Request) {
	var req model.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	order, err := in.Lifecycle.ConfirmPayment(r.Context(), req.AuthorizationHandle, req.Details)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, order)
}
