package service

import (
	"context"
	"github.com/go-playground/validator/v10"
	"log/slog"
	"museum-ticket/common"
	"museum-ticket/common/constant"
	"museum-ticket/common/contract"
	"museum-ticket/common/errs"
	"museum-ticket/common/otel"
	"museum-ticket/model"
	"slices"
	"sort"
	"time"
)

// BlockingConsole is the operator side of the availability rules. Writes are
// last-write-wins per date.
type BlockingConsole struct {
	Store       contract.AvailabilityStore
	Broadcaster contract.Broadcaster
	Validate    *validator.Validate

	Timeout time.Duration
}

// UpsertRule stores the rule for req.Date, or deletes it when it no longer
// restricts anything. The returned rule is nil after a delete.
func (c *BlockingConsole) UpsertRule(ctx context.Context, req model.UpsertRuleRequest) (*model.BlockingRule, error) {
	ctx, span := otel.Tracer.Start(ctx, "BlockingConsole.UpsertRule")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "upsert rule receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	rule, err := c.normalize(req)
	if err != nil {
		return nil, err
	}

	if !rule.FullDayBlocked && len(rule.BlockedTimes) == 0 {
		if _, err = c.DeleteRule(ctx, rule.Date); err != nil {
			return nil, err
		}
		return nil, nil
	}

	storeCtx, cancel := withTimeout(ctx, c.Timeout)
	defer cancel()

	revision, err := c.Store.UpsertRule(storeCtx, rule)
	if err != nil {
		slog.ErrorContext(ctx, "failed to upsert rule", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return nil, errs.Persistence(err)
	}

	c.publishChange(ctx, revision, rule.Date)

	slog.InfoContext(ctx, "upsert rule success", traceIdAttr, slog.Int64("revision", revision))

	return &rule, nil
}

// DeleteRule reports whether a rule existed for date.
func (c *BlockingConsole) DeleteRule(ctx context.Context, date string) (bool, error) {
	ctx, span := otel.Tracer.Start(ctx, "BlockingConsole.DeleteRule")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return false, errs.Validation("Date", "datetime")
	}

	storeCtx, cancel := withTimeout(ctx, c.Timeout)
	defer cancel()

	revision, deleted, err := c.Store.DeleteRule(storeCtx, date)
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete rule", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return false, errs.Persistence(err)
	}

	if deleted {
		c.publishChange(ctx, revision, date)
	}

	slog.InfoContext(ctx, "delete rule success", traceIdAttr, slog.String("date", date), slog.Bool("deleted", deleted))

	return deleted, nil
}

// ListRules reads straight from the store so operators see their own writes.
func (c *BlockingConsole) ListRules(ctx context.Context) (model.ListRulesResponse, error) {
	storeCtx, cancel := withTimeout(ctx, c.Timeout)
	defer cancel()

	snapshot, err := c.Store.ListRules(storeCtx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list rules", slog.Any(constant.LogFieldErr, err))
		return model.ListRulesResponse{}, errs.Persistence(err)
	}

	rules := make([]model.BlockingRule, 0, len(snapshot.Rules))
	for _, rule := range snapshot.Rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Date < rules[j].Date })

	return model.ListRulesResponse{Revision: snapshot.Revision, Rules: rules}, nil
}

// normalize validates req and returns the rule with blocked times deduplicated
// in schedule order.
func (c *BlockingConsole) normalize(req model.UpsertRuleRequest) (model.BlockingRule, error) {
	if err := c.Validate.Struct(req); err != nil {
		return model.BlockingRule{}, toValidationError(err)
	}

	if _, ok := constant.ProductById[req.ProductScope]; !ok && req.ProductScope != constant.ScopeAllProducts {
		return model.BlockingRule{}, errs.Validation("ProductScope", "not found")
	}

	for _, t := range req.BlockedTimes {
		if !slices.Contains(constant.SlotTimes, t) {
			return model.BlockingRule{}, errs.Validation("BlockedTimes", "not found")
		}
	}

	times := make([]string, 0, len(req.BlockedTimes))
	if !req.FullDayBlocked {
		for _, slot := range constant.SlotTimes {
			if slices.Contains(req.BlockedTimes, slot) {
				times = append(times, slot)
			}
		}
	}

	return model.BlockingRule{
		Date:           req.Date,
		ProductScope:   req.ProductScope,
		FullDayBlocked: req.FullDayBlocked,
		BlockedTimes:   times,
	}, nil
}

// publishChange tells every process to reload. The snapshot refresh timer
// covers a lost message.
func (c *BlockingConsole) publishChange(ctx context.Context, revision int64, date string) {
	if c.Broadcaster == nil {
		return
	}

	msg := model.AvailabilityChangedMessage{Revision: revision, Date: date}
	if err := common.BroadcastMessage(ctx, c.Broadcaster, constant.SubjectAvailabilityChanged, msg); err != nil {
		slog.WarnContext(ctx, "availability change not broadcast, waiting for refresh", slog.Int64("revision", revision))
	}
}
