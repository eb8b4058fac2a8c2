package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"museum-ticket/common"
	"museum-ticket/common/constant"
	"museum-ticket/common/contract"
	"museum-ticket/common/errs"
	"museum-ticket/common/otel"
	"museum-ticket/model"
	"museum-ticket/service"
	"time"
)

type OrderEvent struct {
	Lifecycle *service.OrderLifecycle
	Publisher contract.Publisher

	Timeout time.Duration
}

// ConfirmHandler records the order for a provider callback. Outcomes that a
// redelivery cannot change are acked.
func (in OrderEvent) ConfirmHandler(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	var req model.PaymentCallbackRequest
	err := json.Unmarshal(msg, &req)
	if err != nil {
		slog.WarnContext(ctx, "confirm order event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	ctx, span := otel.Tracer.Start(ctx, "OrderEvent.ConfirmHandler")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	reqAttr := slog.Any(constant.LogFieldPayload, string(msg))

	order, err := in.Lifecycle.ConfirmFromProvider(ctx, req.AuthorizationHandle)
	switch errs.KindOf(err) {
	case "":
		slog.InfoContext(ctx, "confirm order event success", reqAttr, traceIdAttr, slog.Any(constant.LogFieldResponse, order.DisplayId))
		return nil
	case errs.KindPaymentNotCompleted:
		slog.InfoContext(ctx, "confirm order event payment not completed", reqAttr, traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return nil
	case errs.KindValidation, errs.KindConflict:
		slog.WarnContext(ctx, "confirm order event rejected", reqAttr, traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return nil
	default:
		slog.ErrorContext(ctx, "confirm order event error", reqAttr, traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return err
	}
}

// PaidHandler queues the order received email in the customer's language.
func (in OrderEvent) PaidHandler(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	var order model.Order
	err := json.Unmarshal(msg, &order)
	if err != nil {
		slog.WarnContext(ctx, "order paid event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	reqAttr := slog.Any(constant.LogFieldPayload, string(msg))

	err = common.PublishMessage(ctx, in.Publisher, constant.SubjectSendEmail, service.OrderReceivedEmail(order))
	if err != nil {
		slog.ErrorContext(ctx, "order paid event publish error", slog.Any(constant.LogFieldErr, err), reqAttr, traceIdAttr)
		return err
	}

	slog.DebugContext(ctx, "order paid event publish success", reqAttr, traceIdAttr)

	return nil
}
