package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/trace"
	"log/slog"
	"math/rand/v2"
	"museum-ticket/common"
	"museum-ticket/common/constant"
	"museum-ticket/common/contract"
	"museum-ticket/common/errs"
	"museum-ticket/common/otel"
	"museum-ticket/model"
	"strings"
	"time"
)

const (
	defaultListOrdersLimit = 300
	maxListOrdersLimit     = 1000
	maxDisplayIdAttempts   = 5
)

// OrderLifecycle owns every order write. Orders are created already paid,
// after the provider has verified the authorization.
type OrderLifecycle struct {
	Store     contract.OrderStore
	Payment   contract.PaymentProvider
	Publisher contract.Publisher
	Validate  *validator.Validate

	Currency     string
	Timeout      time.Duration
	NewDisplayId func() string
}

// NewDisplayId returns an 8 digit customer facing order number.
func NewDisplayId() string {
	return fmt.Sprintf("%08d", rand.IntN(100_000_000))
}

// ConfirmPayment records the order for a succeeded authorization. Calling it
// again with the same handle returns the order already stored.
func (l *OrderLifecycle) ConfirmPayment(ctx context.Context, handle string, details model.ReservationRequest) (model.Order, error) {
	ctx, span := otel.Tracer.Start(ctx, "OrderLifecycle.ConfirmPayment")
	defer span.End()

	if strings.TrimSpace(handle) == "" {
		return model.Order{}, errs.Validation("AuthorizationHandle", "required")
	}

	if err := l.Validate.Struct(details); err != nil {
		return model.Order{}, toValidationError(err)
	}

	return l.confirm(ctx, handle, &details)
}

// ConfirmFromProvider records the order for a provider callback, taking the
// booking from the authorization metadata.
func (l *OrderLifecycle) ConfirmFromProvider(ctx context.Context, handle string) (model.Order, error) {
	ctx, span := otel.Tracer.Start(ctx, "OrderLifecycle.ConfirmFromProvider")
	defer span.End()

	if strings.TrimSpace(handle) == "" {
		return model.Order{}, errs.Validation("AuthorizationHandle", "required")
	}

	return l.confirm(ctx, handle, nil)
}

func (l *OrderLifecycle) confirm(ctx context.Context, handle string, details *model.ReservationRequest) (model.Order, error) {
	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	handleAttr := slog.String("authorization_handle", handle)
	slog.InfoContext(ctx, "confirm payment receive request", handleAttr, traceIdAttr)

	existing, err := l.getByAuthorization(ctx, handle)
	if err != nil {
		slog.ErrorContext(ctx, "failed to find order by authorization", handleAttr, traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return model.Order{}, errs.Persistence(err)
	}

	if existing != nil {
		slog.DebugContext(ctx, "order already recorded", handleAttr, traceIdAttr)
		if existing.Status == model.OrderStatusPaid && !existing.ReceiptQueued {
			return l.queueReceipt(ctx, *existing), nil
		}
		return *existing, nil
	}

	providerCtx, cancel := withTimeout(ctx, l.Timeout)
	auth, err := l.Payment.GetAuthorization(providerCtx, handle)
	cancel()
	if err != nil {
		slog.ErrorContext(ctx, "failed to get payment authorization", handleAttr, traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return model.Order{}, errs.PaymentProvider(err)
	}

	if auth.Status != model.PaymentStatusSucceeded {
		slog.DebugContext(ctx, "payment not completed", handleAttr, traceIdAttr, slog.String("status", string(auth.Status)))
		return model.Order{}, errs.PaymentNotCompleted(string(auth.Status))
	}

	paid := reservationFromMetadata(auth.Metadata)
	if details != nil {
		if err = matchPaidReservation(*details, paid); err != nil {
			slog.WarnContext(ctx, "order details differ from payment", handleAttr, traceIdAttr, slog.Any(constant.LogFieldErr, err))
			return model.Order{}, err
		}
		paid = *details
	}

	total, err := Price(paid.Product, paid.Adults, paid.Reduced)
	if err != nil {
		slog.ErrorContext(ctx, "payment metadata does not describe a valid order", handleAttr, traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return model.Order{}, err
	}

	if total != auth.AmountCents || !strings.EqualFold(auth.Currency, l.Currency) {
		slog.ErrorContext(ctx, "payment amount mismatch", handleAttr, traceIdAttr,
			slog.Int64("expected", total), slog.Int64("paid", auth.AmountCents), slog.String("currency", auth.Currency))
		return model.Order{}, errs.Conflict("Paid amount does not match order")
	}

	order := model.Order{
		AuthorizationHandle: handle,
		Product:             paid.Product,
		VisitDate:           paid.Date,
		VisitTime:           paid.Time,
		Adults:              paid.Adults,
		Reduced:             paid.Reduced,
		TotalPriceCents:     total,
		CustomerName:        paid.Name,
		CustomerEmail:       paid.Email,
		CustomerPhone:       paid.Phone,
		Language:            languageOrDefault(paid.Language),
		Status:              model.OrderStatusPaid,
	}

	saved, inserted, err := l.insert(ctx, order)
	if err != nil {
		slog.ErrorContext(ctx, "payment captured but order not recorded", handleAttr, traceIdAttr,
			slog.String("product", order.Product), slog.String("date", order.VisitDate), slog.String("time", order.VisitTime),
			slog.String("email", order.CustomerEmail), slog.Int64("amount", total), slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(trace.SpanFromContext(ctx), err)
		return model.Order{}, errs.PaymentCapturedNotRecorded(handle, err)
	}

	if inserted {
		saved = l.queueReceipt(ctx, saved)
	}

	slog.InfoContext(ctx, "confirm payment success", handleAttr, traceIdAttr, slog.Any(constant.LogFieldResponse, saved.DisplayId))

	return saved, nil
}

// queueReceipt publishes the paid event and flags the order once it is out.
// On failure the flag stays unset and the next confirm of the handle retries.
func (l *OrderLifecycle) queueReceipt(ctx context.Context, order model.Order) model.Order {
	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	handleAttr := slog.String("authorization_handle", order.AuthorizationHandle)

	err := common.PublishMessage(ctx, l.Publisher, constant.SubjectOrderPaid, order)
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish order paid message", handleAttr, traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return order
	}

	storeCtx, cancel := withTimeout(ctx, l.Timeout)
	defer cancel()

	queued := true
	updated, err := l.Store.UpdateOrder(storeCtx, order.Id, model.OrderPatch{
		ExpectedStatus: model.OrderStatusPaid,
		ReceiptQueued:  &queued,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to mark receipt queued", handleAttr, traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return order
	}

	order.ReceiptQueued = updated
	return order
}

// insert stores order, retrying display id collisions. A concurrent confirm
// of the same handle wins and its order is returned with inserted false.
func (l *OrderLifecycle) insert(ctx context.Context, order model.Order) (model.Order, bool, error) {
	storeCtx, cancel := withTimeout(ctx, l.Timeout)
	defer cancel()

	for range maxDisplayIdAttempts {
		order.DisplayId = l.NewDisplayId()

		saved, inserted, err := l.Store.InsertOrder(storeCtx, order)
		if errors.Is(err, contract.ErrDuplicateDisplayId) {
			continue
		}
		if err != nil {
			return model.Order{}, false, err
		}

		if inserted {
			return saved, true, nil
		}

		existing, err := l.Store.GetOrderByAuthorization(storeCtx, order.AuthorizationHandle)
		if err != nil {
			return model.Order{}, false, err
		}
		if existing == nil {
			return model.Order{}, false, fmt.Errorf("order for %s neither inserted nor found", order.AuthorizationHandle)
		}
		return *existing, false, nil
	}

	return model.Order{}, false, fmt.Errorf("no free display id after %d attempts", maxDisplayIdAttempts)
}

// MarkFulfilled flips tickets_sent on a paid order. Already fulfilled orders
// are returned unchanged.
func (l *OrderLifecycle) MarkFulfilled(ctx context.Context, id int64) (model.Order, error) {
	ctx, span := otel.Tracer.Start(ctx, "OrderLifecycle.MarkFulfilled")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	order, err := l.GetOrder(ctx, id)
	if err != nil {
		return model.Order{}, err
	}

	if order.Status != model.OrderStatusPaid {
		return model.Order{}, errs.Conflict("Order is not paid")
	}

	if order.TicketsSent {
		slog.DebugContext(ctx, "order already fulfilled", traceIdAttr, slog.Int64("order_id", id))
		return order, nil
	}

	storeCtx, cancel := withTimeout(ctx, l.Timeout)
	defer cancel()

	sent := true
	updated, err := l.Store.UpdateOrder(storeCtx, id, model.OrderPatch{
		ExpectedStatus: model.OrderStatusPaid,
		TicketsSent:    &sent,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to mark order fulfilled", traceIdAttr, slog.Int64("order_id", id), slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return model.Order{}, errs.Persistence(err)
	}

	if !updated {
		return model.Order{}, errs.Conflict("Order changed concurrently")
	}

	order.TicketsSent = true
	slog.InfoContext(ctx, "order fulfilled", traceIdAttr, slog.Int64("order_id", id))

	return order, nil
}

func (l *OrderLifecycle) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	storeCtx, cancel := withTimeout(ctx, l.Timeout)
	defer cancel()

	order, err := l.Store.GetOrder(storeCtx, id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get order", slog.Int64("order_id", id), slog.Any(constant.LogFieldErr, err))
		return model.Order{}, errs.Persistence(err)
	}

	if order == nil {
		return model.Order{}, errs.NotFound("Order")
	}

	return *order, nil
}

// ListOrders returns the latest orders matching filter, newest first.
func (l *OrderLifecycle) ListOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListOrdersLimit
	}
	if filter.Limit > maxListOrdersLimit {
		filter.Limit = maxListOrdersLimit
	}

	if filter.Status != "" && filter.Status != model.OrderStatusPaid && filter.Status != model.OrderStatusPending {
		return nil, errs.Validation("Status", "oneof")
	}

	storeCtx, cancel := withTimeout(ctx, l.Timeout)
	defer cancel()

	orders, err := l.Store.ListOrders(storeCtx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list orders", slog.Any(constant.LogFieldErr, err))
		return nil, errs.Persistence(err)
	}

	return orders, nil
}

func (l *OrderLifecycle) getByAuthorization(ctx context.Context, handle string) (*model.Order, error) {
	storeCtx, cancel := withTimeout(ctx, l.Timeout)
	defer cancel()

	return l.Store.GetOrderByAuthorization(storeCtx, handle)
}

// matchPaidReservation rejects confirmations whose visit or party differs from
// what the authorization was opened for.
func matchPaidReservation(details, paid model.ReservationRequest) error {
	if details.Product != paid.Product || details.Date != paid.Date || details.Time != paid.Time ||
		details.Adults != paid.Adults || details.Reduced != paid.Reduced {
		return errs.Conflict("Order details do not match payment")
	}
	return nil
}
