package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"museum-ticket/common/constant"
	"museum-ticket/common/vars"
	"museum-ticket/model"
)

type Refresher interface {
	Refresh(ctx context.Context) error
}

// AvailabilityEvent reloads the rule snapshot when an operator write is
// broadcast.
type AvailabilityEvent struct {
	Refresher Refresher
}

func (in AvailabilityEvent) ChangedHandler(ctx context.Context, msg []byte) error {
	var req model.AvailabilityChangedMessage
	if err := json.Unmarshal(msg, &req); err != nil {
		slog.WarnContext(ctx, "availability changed event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	if req.Revision <= vars.GetRules().Revision {
		slog.DebugContext(ctx, "availability already at revision", slog.Int64("revision", req.Revision))
		return nil
	}

	return in.Refresher.Refresh(ctx)
}
