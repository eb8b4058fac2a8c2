package contract

//go:generate mockgen -source=store.go -destination=mocks/store.go -package=mocks

import (
	"context"
	"errors"
	"museum-ticket/model"
)

// ErrDuplicateDisplayId is returned by InsertOrder when the generated display
// id collides with an existing order. Callers retry with a fresh id.
var ErrDuplicateDisplayId = errors.New("display id already taken")

type AvailabilityStore interface {
	// GetRule returns nil without error when the date has no rule.
	GetRule(ctx context.Context, date string) (*model.BlockingRule, error)
	ListRules(ctx context.Context) (model.RuleSnapshot, error)
	UpsertRule(ctx context.Context, rule model.BlockingRule) (int64, error)
	DeleteRule(ctx context.Context, date string) (int64, bool, error)
}

type OrderStore interface {
	// InsertOrder reports false when an order with the same authorization
	// handle already exists.
	InsertOrder(ctx context.Context, order model.Order) (model.Order, bool, error)
	UpdateOrder(ctx context.Context, id int64, patch model.OrderPatch) (bool, error)
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	GetOrderByAuthorization(ctx context.Context, handle string) (*model.Order, error)
	ListOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
}
