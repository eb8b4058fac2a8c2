package model

import (
	"slices"
	"time"
)

type SlotState string

const (
	SlotStateOpen     SlotState = "open"
	SlotStateLow      SlotState = "low"
	SlotStateCritical SlotState = "critical"
	SlotStateBlocked  SlotState = "blocked"
	SlotStateDisabled SlotState = "disabled"
)

// BlockingRule restricts sale on one calendar date. Date is YYYY-MM-DD and is
// the rule's key.
type BlockingRule struct {
	Date           string    `json:"date"`
	ProductScope   string    `json:"product_scope"`
	FullDayBlocked bool      `json:"full_day_blocked"`
	BlockedTimes   []string  `json:"blocked_times"`
	UpdatedAt      time.Time `json:"updated_at,omitzero"`
}

func (r BlockingRule) AppliesTo(product string) bool {
	return r.ProductScope == "all" || r.ProductScope == product
}

func (r BlockingRule) IsTimeBlocked(slot string) bool {
	return slices.Contains(r.BlockedTimes, slot)
}

// RuleSnapshot is a committed view of every rule, versioned by the store
// revision counter.
type RuleSnapshot struct {
	Revision int64
	Rules    map[string]BlockingRule
}

type SlotAvailability struct {
	Time  string    `json:"time"`
	State SlotState `json:"state"`
}

type DayAvailability struct {
	Date   string    `json:"date"`
	Status SlotState `json:"status"`
	Label  string    `json:"label,omitempty"`
}

type AvailabilityResponse struct {
	DayAvailability
	Product string             `json:"product"`
	Slots   []SlotAvailability `json:"slots"`
}

type CalendarResponse struct {
	Month   string            `json:"month"`
	Product string            `json:"product"`
	Days    []DayAvailability `json:"days"`
}

type UpsertRuleRequest struct {
	Date           string   `json:"-" validate:"required,datetime=2006-01-02"`
	ProductScope   string   `json:"product_scope" validate:"required"`
	FullDayBlocked bool     `json:"full_day_blocked"`
	BlockedTimes   []string `json:"blocked_times" validate:"dive,required"`
}

type ListRulesResponse struct {
	Revision int64          `json:"revision"`
	Rules    []BlockingRule `json:"rules"`
}

type AvailabilityChangedMessage struct {
	Revision int64  `json:"revision"`
	Date     string `json:"date"`
}
