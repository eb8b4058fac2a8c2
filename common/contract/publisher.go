package contract

//go:generate mockgen -source=publisher.go -destination=mocks/publisher.go -package=mocks

import (
	"context"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher is the subset of jetstream.JetStream used to enqueue work.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Broadcaster fans a message out to every subscriber, *nats.Conn satisfies it.
type Broadcaster interface {
	Publish(subject string, data []byte) error
}
