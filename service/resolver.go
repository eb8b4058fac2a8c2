package service

import (
	"context"
	"log/slog"
	"museum-ticket/common"
	"museum-ticket/common/constant"
	"museum-ticket/common/errs"
	"museum-ticket/common/otel"
	"museum-ticket/common/vars"
	"museum-ticket/model"
	"time"
)

// ResolveSlots computes the state of every slot of product on date as seen on
// asOf. Both dates are YYYY-MM-DD, so they order lexically. rule may be nil.
func ResolveSlots(date, asOf, product string, rule *model.BlockingRule) []model.SlotAvailability {
	slots := make([]model.SlotAvailability, 0, len(constant.SlotTimes))

	state := dayScarcity(date, asOf, product, rule)
	for _, slot := range constant.SlotTimes {
		slotState := state
		if state != model.SlotStateDisabled && rule != nil && rule.AppliesTo(product) && rule.IsTimeBlocked(slot) {
			slotState = model.SlotStateBlocked
		}
		slots = append(slots, model.SlotAvailability{Time: slot, State: slotState})
	}

	return slots
}

// ResolveDay summarizes a date for the calendar view. A day with no open
// slot left is blocked even without the full day flag.
func ResolveDay(date, asOf, product string, rule *model.BlockingRule) model.DayAvailability {
	state := dayScarcity(date, asOf, product, rule)
	if state != model.SlotStateDisabled && remainingSlots(product, rule) == 0 {
		state = model.SlotStateBlocked
	}

	day := model.DayAvailability{Date: date, Status: state}
	switch state {
	case model.SlotStateBlocked:
		day.Label = constant.DayLabelSoldOut
	case model.SlotStateCritical:
		day.Label = constant.DayLabelLastSpots
	case model.SlotStateLow:
		day.Label = constant.DayLabelSellingFast
	}

	return day
}

// dayScarcity is the state shared by every slot not individually blocked.
func dayScarcity(date, asOf, product string, rule *model.BlockingRule) model.SlotState {
	if date < asOf {
		return model.SlotStateDisabled
	}

	if rule == nil || !rule.AppliesTo(product) {
		return model.SlotStateOpen
	}

	if rule.FullDayBlocked {
		return model.SlotStateBlocked
	}

	remaining := remainingSlots(product, rule)
	switch {
	case remaining <= constant.SlotRemainingCritical:
		return model.SlotStateCritical
	case remaining <= constant.SlotRemainingLow:
		return model.SlotStateLow
	default:
		return model.SlotStateOpen
	}
}

func remainingSlots(product string, rule *model.BlockingRule) int {
	if rule == nil || !rule.AppliesTo(product) {
		return len(constant.SlotTimes)
	}

	if rule.FullDayBlocked {
		return 0
	}

	remaining := len(constant.SlotTimes)
	for _, slot := range constant.SlotTimes {
		if rule.IsTimeBlocked(slot) {
			remaining--
		}
	}
	return remaining
}

// Resolver answers availability queries from the in-memory rule snapshot.
type Resolver struct {
	Location *time.Location
	TimeNow  func() time.Time
}

func NewResolver(location *time.Location) *Resolver {
	return &Resolver{
		Location: location,
		TimeNow:  time.Now,
	}
}

// Today is the current civil date at the venue.
func (r *Resolver) Today() string {
	return r.TimeNow().In(r.Location).Format(time.DateOnly)
}

func (r *Resolver) GetAvailability(ctx context.Context, date, product string) (model.AvailabilityResponse, error) {
	ctx, span := otel.Tracer.Start(ctx, "Resolver.GetAvailability")
	defer span.End()

	if err := validateProductAndDate(product, date); err != nil {
		return model.AvailabilityResponse{}, err
	}

	asOf := r.Today()
	var rulePtr *model.BlockingRule
	if rule, ok := vars.GetRule(date); ok {
		rulePtr = &rule
	}

	slog.DebugContext(ctx, "resolve availability", common.ExtractTraceIDFromCtx(ctx),
		slog.String("date", date), slog.String("product", product), slog.Bool("has_rule", rulePtr != nil))

	return model.AvailabilityResponse{
		DayAvailability: ResolveDay(date, asOf, product, rulePtr),
		Product:         product,
		Slots:           ResolveSlots(date, asOf, product, rulePtr),
	}, nil
}

// GetCalendar resolves every day of month, given as YYYY-MM.
func (r *Resolver) GetCalendar(ctx context.Context, month, product string) (model.CalendarResponse, error) {
	_, span := otel.Tracer.Start(ctx, "Resolver.GetCalendar")
	defer span.End()

	if _, ok := constant.ProductById[product]; !ok {
		return model.CalendarResponse{}, errs.Validation("Product", "not found")
	}

	first, err := time.Parse("2006-01", month)
	if err != nil {
		return model.CalendarResponse{}, errs.Validation("Month", "datetime")
	}

	asOf := r.Today()
	snapshot := vars.GetRules()

	days := make([]model.DayAvailability, 0, 31)
	for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
		date := day.Format(time.DateOnly)

		var rulePtr *model.BlockingRule
		if rule, ok := snapshot.Rules[date]; ok {
			rulePtr = &rule
		}
		days = append(days, ResolveDay(date, asOf, product, rulePtr))
	}

	return model.CalendarResponse{Month: month, Product: product, Days: days}, nil
}

func validateProductAndDate(product, date string) error {
	if _, ok := constant.ProductById[product]; !ok {
		return errs.Validation("Product", "not found")
	}

	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return errs.Validation("Date", "datetime")
	}

	return nil
}
