package http

import (
	"encoding/json"
	"github.com/go-playground/validator/v10"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"io"
	"log/slog"
	"museum-ticket/common"
	"museum-ticket/common/constant"
	"museum-ticket/common/contract"
	"museum-ticket/common/errs"
	"museum-ticket/model"
	"net/http"
)

const (
	maxCallbackBytes      = 64 << 10
	stripeSignatureHeader = "Stripe-Signature"
	eventIntentSucceeded  = "payment_intent.succeeded"
	eventIntentProcessing = "payment_intent.processing"
)

type PaymentHttp struct {
	Publisher contract.Publisher
	Validate  *validator.Validate

	// WebhookSecret enables signed provider events. When empty the callback
	// accepts a bare {"authorization_handle"} body.
	WebhookSecret string
}

func RegisterPaymentHttp(
	mux *http.ServeMux,
	publisher contract.Publisher,
	validate *validator.Validate,
	webhookSecret string,
) *PaymentHttp {
	in := &PaymentHttp{
		Publisher:     publisher,
		Validate:      validate,
		WebhookSecret: webhookSecret,
	}

	mux.HandleFunc("POST /api/payments/callback", in.callback)

	return in
}

// callback queues the provider notification. The order worker verifies the
// payment with the provider before recording anything.
func (in PaymentHttp) callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCallbackBytes))
	if err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	var req model.PaymentCallbackRequest
	if in.WebhookSecret != "" {
		handle, ok, err := in.handleFromEvent(payload, r.Header.Get(stripeSignatureHeader))
		if err != nil {
			slog.WarnContext(ctx, "payment callback rejected", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
			writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid signature"})
			return
		}
		if !ok {
			w.WriteHeader(http.StatusOK)
			return
		}
		req.AuthorizationHandle = handle
	} else if err = json.Unmarshal(payload, &req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err = in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	err = common.PublishMessage(ctx, in.Publisher, constant.SubjectConfirmOrder, model.PaymentCallbackRequest{AuthorizationHandle: req.AuthorizationHandle})
	if err != nil {
		slog.ErrorContext(ctx, "error publish message when callback payment", slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleFromEvent verifies the signed event and returns the intent id for
// events worth a confirmation attempt. Other event types report false.
func (in PaymentHttp) handleFromEvent(payload []byte, signature string) (string, bool, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, in.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return "", false, err
	}

	switch string(event.Type) {
	case eventIntentSucceeded, eventIntentProcessing:
	default:
		return "", false, nil
	}

	var intent stripe.PaymentIntent
	if err = json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return "", false, err
	}

	return intent.ID, true, nil
}
