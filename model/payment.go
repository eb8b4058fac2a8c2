package model

type PaymentStatus string

const (
	PaymentStatusSucceeded      PaymentStatus = "succeeded"
	PaymentStatusProcessing     PaymentStatus = "processing"
	PaymentStatusRequiresAction PaymentStatus = "requires_action"
	PaymentStatusCanceled       PaymentStatus = "canceled"
	PaymentStatusFailed         PaymentStatus = "failed"
)

type PaymentAuthorization struct {
	Handle       string            `json:"handle"`
	ClientSecret string            `json:"client_secret"`
	AmountCents  int64             `json:"amount_cents"`
	Currency     string            `json:"currency"`
	Status       PaymentStatus     `json:"status"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type CreateAuthorizationParams struct {
	AmountCents    int64
	Currency       string
	Metadata       map[string]string
	IdempotencyKey string
}

type PaymentCallbackRequest struct {
	AuthorizationHandle string `json:"authorization_handle" validate:"required"`
}
