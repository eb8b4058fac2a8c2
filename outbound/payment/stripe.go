package payment

import (
	"context"
	"fmt"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"museum-ticket/model"
)

// StripeProvider opens and inspects PaymentIntents. The intent id is the
// authorization handle.
type StripeProvider struct {
	Client paymentintent.Client
}

// NewStripeProvider uses the default API backend when backend is nil.
func NewStripeProvider(secretKey string, backend stripe.Backend) *StripeProvider {
	if backend == nil {
		backend = stripe.GetBackend(stripe.APIBackend)
	}

	return &StripeProvider{
		Client: paymentintent.Client{B: backend, Key: secretKey},
	}
}

func (p *StripeProvider) CreateAuthorization(ctx context.Context, params model.CreateAuthorizationParams) (model.PaymentAuthorization, error) {
	intentParams := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(params.AmountCents),
		Currency: stripe.String(params.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	intentParams.Context = ctx

	if params.IdempotencyKey != "" {
		intentParams.SetIdempotencyKey(params.IdempotencyKey)
	}

	for key, value := range params.Metadata {
		intentParams.AddMetadata(key, value)
	}

	intent, err := p.Client.New(intentParams)
	if err != nil {
		return model.PaymentAuthorization{}, fmt.Errorf("create payment intent: %w", err)
	}

	return toAuthorization(intent), nil
}

func (p *StripeProvider) GetAuthorization(ctx context.Context, handle string) (model.PaymentAuthorization, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := p.Client.Get(handle, params)
	if err != nil {
		return model.PaymentAuthorization{}, fmt.Errorf("get payment intent %s: %w", handle, err)
	}

	return toAuthorization(intent), nil
}

func toAuthorization(intent *stripe.PaymentIntent) model.PaymentAuthorization {
	return model.PaymentAuthorization{
		Handle:       intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountCents:  intent.Amount,
		Currency:     string(intent.Currency),
		Status:       toPaymentStatus(intent.Status),
		Metadata:     intent.Metadata,
	}
}

func toPaymentStatus(status stripe.PaymentIntentStatus) model.PaymentStatus {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return model.PaymentStatusSucceeded
	case stripe.PaymentIntentStatusProcessing:
		return model.PaymentStatusProcessing
	case stripe.PaymentIntentStatusCanceled:
		return model.PaymentStatusCanceled
	case stripe.PaymentIntentStatusRequiresAction,
		stripe.PaymentIntentStatusRequiresCapture,
		stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusRequiresPaymentMethod:
		return model.PaymentStatusRequiresAction
	default:
		return model.PaymentStatusFailed
	}
}
