package cron

import (
	"context"
	"fmt"
	"github.com/spf13/viper"
	"log/slog"
	"museum-ticket/common"
	"museum-ticket/common/constant"
	"museum-ticket/common/contract"
	"museum-ticket/common/vars"
	"time"
)

// AvailabilityCron keeps the in-memory rule snapshot in step with the store.
// A write is visible to readers at most one refresh interval later, sooner
// when the change broadcast arrives.
type AvailabilityCron struct {
	Cfg   *viper.Viper
	Store contract.AvailabilityStore
}

func (in AvailabilityCron) Start(ctx context.Context) {
	refreshTicker := time.NewTicker(in.Cfg.GetDuration("availability.refresh.interval"))
	defer refreshTicker.Stop()

	slog.Info("availability cron started")

	for {
		select {
		case <-refreshTicker.C:
			_ = in.Refresh(ctx)
		case <-ctx.Done():
			slog.Info("availability cron stopped")
			return
		}
	}
}

// Refresh loads every rule and installs the snapshot unless a newer one is
// already visible.
func (in AvailabilityCron) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, in.Cfg.GetDuration("availability.refresh.timeout"))
	defer cancel()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	slog.DebugContext(ctx, "refreshing availability rules", traceIdAttr)

	snapshot, err := in.Store.ListRules(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list availability rules", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return fmt.Errorf("list rules: %w", err)
	}

	if !vars.SetRules(snapshot) {
		slog.DebugContext(ctx, "stale availability snapshot discarded", traceIdAttr,
			slog.Int64("revision", snapshot.Revision), slog.Int64("current", vars.GetRules().Revision))
		return nil
	}

	slog.DebugContext(ctx, "availability rules refreshed successfully", traceIdAttr,
		slog.Int64("revision", snapshot.Revision), slog.Int("rules", len(snapshot.Rules)))

	return nil
}
