package errs

import (
	"errors"
	"fmt"
)

type HttpError struct {
	Code    int
	Message string
	Data    any
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("code %d: %s, data: %v", e.Code, e.Message, e.Data)
}

type Kind string

const (
	KindValidation          Kind = "validation_failed"
	KindSoldOutDay          Kind = "sold_out_day"
	KindSoldOutTime         Kind = "sold_out_time"
	KindReservationInFlight Kind = "reservation_in_flight"
	KindPaymentProvider     Kind = "payment_provider_error"
	KindPaymentNotCompleted Kind = "payment_not_completed"
	KindPersistence         Kind = "persistence_error"
	KindFulfillment         Kind = "fulfillment_error"
	KindNotFound            Kind = "not_found"
	KindConflict            Kind = "conflict"
	KindUnauthorized        Kind = "unauthorized"
)

// Error is the outcome type returned by the booking components. Business
// rejections carry no wrapped error, infrastructure faults wrap the cause.
type Error struct {
	Kind    Kind
	Message string
	Data    map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func Validation(field, reason string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "Validation failed",
		Data:    map[string]any{field: reason},
	}
}

func SoldOutDay(date string) *Error {
	return &Error{
		Kind:    KindSoldOutDay,
		Message: "Selected day is sold out",
		Data:    map[string]any{"date": date},
	}
}

func SoldOutTime(date, time string) *Error {
	return &Error{
		Kind:    KindSoldOutTime,
		Message: "Selected time is sold out",
		Data:    map[string]any{"date": date, "time": time},
	}
}

func ReservationInFlight() *Error {
	return &Error{Kind: KindReservationInFlight, Message: "Reservation already in progress"}
}

func PaymentProvider(err error) *Error {
	return &Error{Kind: KindPaymentProvider, Message: "Payment provider error", Err: err}
}

func PaymentNotCompleted(status string) *Error {
	return &Error{
		Kind:    KindPaymentNotCompleted,
		Message: "Payment not completed",
		Data:    map[string]any{"status": status},
	}
}

func Persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Message: "Persistence error", Err: err}
}

// PaymentCapturedNotRecorded marks the case where money moved but the order
// could not be written. Support reconciles it by the authorization handle.
func PaymentCapturedNotRecorded(handle string, err error) *Error {
	return &Error{
		Kind:    KindPersistence,
		Message: "Payment captured but order not recorded, contact support",
		Data:    map[string]any{"authorization_handle": handle, "payment_captured": true},
		Err:     err,
	}
}

func Fulfillment(err error) *Error {
	return &Error{Kind: KindFulfillment, Message: "Ticket delivery failed", Err: err}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Unauthorized() *Error {
	return &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
}
