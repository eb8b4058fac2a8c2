package http

import (
	"encoding/json"
	"errors"
	"github.com/go-playground/validator/v10"
	"museum-ticket/common/errs"
	"museum-ticket/model"
	"net/http"
)

const codePaymentCapturedOrderNotRecorded = "payment_captured_order_not_recorded"

var statusByKind = map[errs.Kind]int{
	errs.KindValidation:          http.StatusBadRequest,
	errs.KindSoldOutDay:          http.StatusConflict,
	errs.KindSoldOutTime:         http.StatusConflict,
	errs.KindReservationInFlight: http.StatusConflict,
	errs.KindPaymentProvider:     http.StatusBadGateway,
	errs.KindPaymentNotCompleted: http.StatusPaymentRequired,
	errs.KindPersistence:         http.StatusInternalServerError,
	errs.KindFulfillment:         http.StatusBadGateway,
	errs.KindNotFound:            http.StatusNotFound,
	errs.KindConflict:            http.StatusConflict,
	errs.KindUnauthorized:        http.StatusUnauthorized,
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func writeErrorResponse(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")

	var errorResponse model.ErrorResponse
	var httpErr *errs.HttpError
	var outcome *errs.Error
	var validationErr validator.ValidationErrors

	switch {
	case errors.As(err, &httpErr):
		errorResponse = model.ErrorResponse{Error: httpErr.Message, Data: httpErr.Data}
		w.WriteHeader(httpErr.Code)
	case errors.As(err, &outcome):
		errorResponse = outcomeResponse(outcome)
		status, ok := statusByKind[outcome.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		w.WriteHeader(status)
	case errors.As(err, &validationErr):
		validationErrors := make(map[string]string)
		for _, fieldErr := range validationErr {
			validationErrors[fieldErr.Field()] = fieldErr.Tag()
		}

		errorResponse = model.ErrorResponse{Error: "Validation failed", Code: string(errs.KindValidation), Data: validationErrors}
		w.WriteHeader(http.StatusBadRequest)
	default:
		errorResponse = model.ErrorResponse{Error: "Internal Server Error"}
		w.WriteHeader(http.StatusInternalServerError)
	}

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// outcomeResponse names the failed constraint so the client can re-render
// the right step. Wrapped infrastructure causes are not exposed.
func outcomeResponse(outcome *errs.Error) model.ErrorResponse {
	resp := model.ErrorResponse{Error: outcome.Message, Code: string(outcome.Kind)}
	if len(outcome.Data) > 0 {
		resp.Data = outcome.Data
	}

	if captured, _ := outcome.Data["payment_captured"].(bool); captured {
		resp.Code = codePaymentCapturedOrderNotRecorded
	}

	return resp
}
