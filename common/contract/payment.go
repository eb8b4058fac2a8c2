package contract

//go:generate mockgen -source=payment.go -destination=mocks/payment.go -package=mocks

import (
	"context"
	"museum-ticket/model"
)

type PaymentProvider interface {
	CreateAuthorization(ctx context.Context, params model.CreateAuthorizationParams) (model.PaymentAuthorization, error)
	GetAuthorization(ctx context.Context, handle string) (model.PaymentAuthorization, error)
}
