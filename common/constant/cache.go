package constant

import "time"

const (
	ReservationInFlightKey = "reservation:inflight:%s"
)

const (
	ReservationInFlightDefaultTTL = 15 * time.Minute
	ReservationInFlightPending    = "pending"

	// ReservationInFlightPendingValue holds the lock nonce until the
	// authorization replaces it.
	ReservationInFlightPendingValue = "pending:%s"
)
