package cmd

import (
	"context"
	"museum-ticket/common/constant"
	"museum-ticket/inbound/event"
	emailOutbound "museum-ticket/outbound/email"
)

func runQueueEmailCmd(ctx context.Context) {
	cfg := newCfg("env")

	stopProfiling := startProfiling(cfg, "email")
	defer stopProfiling()

	natsConn := newNats(cfg)
	defer natsConn.Close()

	js := newJs(natsConn)
	st := createStreamWorkQueue(ctx, js)

	mailer := &emailOutbound.SmtpMailer{Cfg: cfg}
	mailer.Init()

	emailEvent := event.EmailEvent{
		Mailer:  mailer,
		Timeout: cfg.GetDuration("queue.email.timeout"),
	}

	consume(ctx, cfg, st, "email", constant.EmailWildcard, map[string]messageHandler{
		constant.SubjectSendEmail: emailEvent.SendEmailHandler,
	})
}
