package http

import (
	"encoding/json"
	"museum-ticket/common/errs"
	"museum-ticket/model"
	"museum-ticket/service"
	"net/http"
)

type ReservationHttp struct {
	Manager *service.ReservationManager
}

func RegisterReservationHttp(mux *http.ServeMux, manager *service.ReservationManager) *ReservationHttp {
	in := &ReservationHttp{Manager: manager}

	mux.HandleFunc("POST /api/reservations", in.begin)

	return in
}

func (in ReservationHttp) begin(w http.ResponseWriter, r *http.Request) {
	var req model.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	resp, err := in.Manager.BeginReservation(r.Context(), req)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, resp)
}
