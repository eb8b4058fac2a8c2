package constant

const (
	QueueStreamName = "museum_ticket_queue_stream"
)

const (
	AllWildcard   = "events.>"
	OrderWildcard = "events.order.>"
	EmailWildcard = "events.email.>"

	SubjectConfirmOrder = "events.order.confirm"
	SubjectOrderPaid    = "events.order.paid"
	SubjectSendEmail    = "events.email.send"
)

// SubjectAvailabilityChanged is a plain NATS subject outside the work queue
// stream, every http process receives it.
const SubjectAvailabilityChanged = "broadcast.availability.changed"
