package model

import "time"

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

type Order struct {
	Id                  int64       `json:"id"`
	DisplayId           string      `json:"display_id"`
	AuthorizationHandle string      `json:"authorization_handle"`
	Product             string      `json:"product"`
	VisitDate           string      `json:"visit_date"`
	VisitTime           string      `json:"visit_time"`
	Adults              int32       `json:"adults"`
	Reduced             int32       `json:"reduced"`
	TotalPriceCents     int64       `json:"total_price_cents"`
	CustomerName        string      `json:"customer_name"`
	CustomerEmail       string      `json:"customer_email"`
	CustomerPhone       string      `json:"customer_phone"`
	Language            string      `json:"language"`
	Status              OrderStatus `json:"status"`
	TicketsSent         bool        `json:"tickets_sent"`
	ReceiptQueued       bool        `json:"receipt_queued"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

type OrderFilter struct {
	Status      OrderStatus
	TicketsSent *bool
	Limit       int32
}

// ReservationRequest is the logical booking a customer submits, used both to
// open the payment authorization and to confirm it.
type ReservationRequest struct {
	Product  string `json:"product" validate:"required"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"required"`
	Adults   int32  `json:"adults" validate:"gte=0,lte=50"`
	Reduced  int32  `json:"reduced" validate:"gte=0,lte=50"`
	Name     string `json:"name" validate:"required,min=4,max=100"`
	Email    string `json:"email" validate:"required,email,max=254,not_typo_domain"`
	Phone    string `json:"phone" validate:"required,min=7,max=30"`
	Language string `json:"language" validate:"omitempty,oneof=en it de es fr"`
}

type BeginReservationResponse struct {
	AuthorizationHandle string `json:"authorization_handle"`
	ClientSecret        string `json:"client_secret"`
	AmountCents         int64  `json:"amount_cents"`
	Currency            string `json:"currency"`
}

type ConfirmPaymentRequest struct {
	AuthorizationHandle string             `json:"authorization_handle" validate:"required"`
	Details             ReservationRequest `json:"details"`
}

type ListOrdersResponse struct {
	Orders []Order `json:"orders"`
}

// OrderPatch is applied only while the order is still in ExpectedStatus.
type OrderPatch struct {
	ExpectedStatus OrderStatus
	Status         *OrderStatus
	TicketsSent    *bool
	ReceiptQueued  *bool
}
