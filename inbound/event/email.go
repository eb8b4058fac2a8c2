package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"museum-ticket/common"
	"museum-ticket/common/constant"
	"museum-ticket/common/contract"
	"museum-ticket/model"
	"time"
)

type EmailEvent struct {
	Mailer  contract.Mailer
	Timeout time.Duration
}

func (in EmailEvent) SendEmailHandler(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	var req model.SendEmailEventMessage
	err := json.Unmarshal(msg, &req)
	if err != nil {
		slog.WarnContext(ctx, "send email event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	reqAttr := slog.String("to", req.To)

	err = in.Mailer.Send(ctx, []string{req.To}, req.Subject, req.Body)
	if err != nil {
		slog.ErrorContext(ctx, "send email event error", slog.Any(constant.LogFieldErr, err), reqAttr, traceIdAttr)
		return err
	}

	slog.DebugContext(ctx, "send email event success", reqAttr, traceIdAttr)

	return nil
}
