package cmd

import (
	"context"
	"fmt"
	"github.com/nats-io/nats.go"
	"log"
	"log/slog"
	"museum-ticket/common/constant"
	inboundCron "museum-ticket/inbound/cron"
	"museum-ticket/inbound/event"
	inboundHttp "museum-ticket/inbound/http"
	emailOutbound "museum-ticket/outbound/email"
	"museum-ticket/outbound/store"
	"museum-ticket/service"
	"net/http"
	"time"
)

func runHttpServerCmd(ctx context.Context) {
	cfg := newCfg("env")

	stopProfiling := startProfiling(cfg, "http")
	defer stopProfiling()

	shutdownTracer := newTracer(ctx, cfg, "http")
	defer shutdownTracer(context.Background())

	validate := service.NewValidator()

	db := newDb(cfg)
	defer db.Close()

	cacheClient := newRedis(cfg)
	defer cacheClient.Close()

	natsConn := newNats(cfg)
	defer natsConn.Close()

	js := newJs(natsConn)
	createStreamWorkQueue(ctx, js)

	postgresStore := store.NewPostgresStore(db)
	paymentProvider := newPaymentProvider(cfg)
	currency := cfg.GetString("payment.currency")

	mailer := &emailOutbound.SmtpMailer{Cfg: cfg}
	mailer.Init()

	resolver := service.NewResolver(newLocation(cfg))
	manager := &service.ReservationManager{
		Store:    postgresStore,
		Payment:  paymentProvider,
		Cache:    cacheClient,
		Validate: validate,
		Resolver: resolver,
		Currency: currency,
		LockTTL:  cfg.GetDuration("reservation.lock_ttl"),
		Timeout:  cfg.GetDuration("reservation.timeout"),
	}
	lifecycle := &service.OrderLifecycle{
		Store:        postgresStore,
		Payment:      paymentProvider,
		Publisher:    js,
		Validate:     validate,
		Currency:     currency,
		Timeout:      cfg.GetDuration("order.timeout"),
		NewDisplayId: service.NewDisplayId,
	}
	fulfillment := &service.Fulfillment{Orders: lifecycle, Mailer: mailer}
	console := &service.BlockingConsole{
		Store:       postgresStore,
		Broadcaster: natsConn,
		Validate:    validate,
		Timeout:     cfg.GetDuration("admin.timeout"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		slog.DebugContext(r.Context(), "health check")
		w.WriteHeader(http.StatusOK)
	})

	timeoutMiddleware := inboundHttp.TimeoutMiddleware(20 * time.Second)

	inboundHttp.RegisterAvailabilityHttp(mux, resolver)
	inboundHttp.RegisterReservationHttp(mux, manager)
	inboundHttp.RegisterOrderHttp(mux, lifecycle)
	inboundHttp.RegisterPaymentHttp(mux, js, validate, cfg.GetString("payment.webhook_secret"))
	inboundHttp.RegisterAdminHttp(mux, cfg, console, lifecycle, fulfillment, validate)

	availabilityCron := &inboundCron.AvailabilityCron{
		Cfg:   cfg,
		Store: postgresStore,
	}

	err := availabilityCron.Refresh(ctx)
	if err != nil {
		log.Fatalln("unable to init availability snapshot", err)
	}

	availabilityEvent := event.AvailabilityEvent{Refresher: availabilityCron}
	sub, err := natsConn.Subscribe(constant.SubjectAvailabilityChanged, func(msg *nats.Msg) {
		if err := availabilityEvent.ChangedHandler(ctx, msg.Data); err != nil {
			slog.WarnContext(ctx, "availability refresh on broadcast failed", slog.Any(constant.LogFieldErr, err))
		}
	})
	if err != nil {
		log.Fatalln("unable to subscribe availability changes", err)
	}
	defer sub.Unsubscribe()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.GetInt("server.port")),
		Handler:           timeoutMiddleware(inboundHttp.CorsMiddleware(mux)),
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalln("unable to start server", err)
		}
	}()

	slog.Info("http server started")

	go func() {
		availabilityCron.Start(ctx)
	}()

	<-ctx.Done()

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutDown); err != nil {
		log.Fatalln("unable to shutdown server", err)
	}

	slog.Info("http server stopped")
}
