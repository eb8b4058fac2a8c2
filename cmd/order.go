package cmd

import (
	"context"
	"museum-ticket/common/constant"
	"museum-ticket/inbound/event"
	"museum-ticket/outbound/store"
	"museum-ticket/service"
)

func runQueueOrderCmd(ctx context.Context) {
	cfg := newCfg("env")

	stopProfiling := startProfiling(cfg, "order")
	defer stopProfiling()

	shutdownTracer := newTracer(ctx, cfg, "order")
	defer shutdownTracer(context.Background())

	db := newDb(cfg)
	defer db.Close()

	natsConn := newNats(cfg)
	defer natsConn.Close()

	js := newJs(natsConn)
	st := createStreamWorkQueue(ctx, js)

	lifecycle := &service.OrderLifecycle{
		Store:        store.NewPostgresStore(db),
		Payment:      newPaymentProvider(cfg),
		Publisher:    js,
		Validate:     service.NewValidator(),
		Currency:     cfg.GetString("payment.currency"),
		Timeout:      cfg.GetDuration("order.timeout"),
		NewDisplayId: service.NewDisplayId,
	}

	orderEvent := event.OrderEvent{
		Lifecycle: lifecycle,
		Publisher: js,
		Timeout:   cfg.GetDuration("queue.order.timeout"),
	}

	consume(ctx, cfg, st, "order", constant.OrderWildcard, map[string]messageHandler{
		constant.SubjectConfirmOrder: orderEvent.ConfirmHandler,
		constant.SubjectOrderPaid:    orderEvent.PaidHandler,
	})
}
