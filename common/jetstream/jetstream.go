package jetstream

import (
	"context"
	"github.com/nats-io/nats.go/jetstream"
	"museum-ticket/common/constant"
)

// CreateQueueStream declares the work queue stream holding every events.>
// subject. Each message is removed once one consumer acks it.
func CreateQueueStream(ctx context.Context, js jetstream.JetStream, maxBytes int64) (jetstream.Stream, error) {
	cfg := jetstream.StreamConfig{
		Name:      constant.QueueStreamName,
		Retention: jetstream.WorkQueuePolicy,
		Subjects:  []string{constant.AllWildcard},
		MaxBytes:  maxBytes,
	}

	return js.CreateOrUpdateStream(ctx, cfg)
}
