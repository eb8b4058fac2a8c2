package service

import (
	"context"
	"log/slog"
	"museum-ticket/common"
	"museum-ticket/common/constant"
	"museum-ticket/common/contract"
	"museum-ticket/common/errs"
	"museum-ticket/common/otel"
	"museum-ticket/model"
)

// Fulfillment delivers ticket files for paid orders. A failed delivery leaves
// the order untouched so it can be retried.
type Fulfillment struct {
	Orders *OrderLifecycle
	Mailer contract.Mailer
}

func (f *Fulfillment) SendTickets(ctx context.Context, id int64, attachments []model.Attachment) (model.Order, error) {
	ctx, span := otel.Tracer.Start(ctx, "Fulfillment.SendTickets")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "send tickets receive request", traceIdAttr, slog.Int64("order_id", id), slog.Int("attachments", len(attachments)))

	if len(attachments) == 0 {
		return model.Order{}, errs.Validation("ticketFiles", "required")
	}

	order, err := f.Orders.GetOrder(ctx, id)
	if err != nil {
		return model.Order{}, err
	}

	if order.Status != model.OrderStatusPaid {
		return model.Order{}, errs.Conflict("Order is not paid")
	}

	subject, body := TicketsEmail(order)
	if err = f.Mailer.Send(ctx, []string{order.CustomerEmail}, subject, body, attachments...); err != nil {
		slog.ErrorContext(ctx, "failed to send tickets", traceIdAttr, slog.Int64("order_id", id), slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return model.Order{}, errs.Fulfillment(err)
	}

	return f.Orders.MarkFulfilled(ctx, id)
}
