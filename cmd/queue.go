package cmd

import (
	"context"
	"errors"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/spf13/viper"
	"log"
	"log/slog"
	"museum-ticket/common/constant"
	"time"
)

type messageHandler func(ctx context.Context, msg []byte) error

// consume runs a durable pull consumer on filter until ctx is done. A handler
// error naks the message for redelivery, unknown subjects are acked.
func consume(
	ctx context.Context,
	cfg *viper.Viper,
	st jetstream.Stream,
	name string,
	filter string,
	handlers map[string]messageHandler,
) {
	cons, err := st.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       "consumer:" + name,
		FilterSubject: filter,
		MaxDeliver:    cfg.GetInt("queue." + name + ".max_deliver"),
		AckWait:       cfg.GetDuration("queue." + name + ".ack_wait"),
	})
	if err != nil {
		log.Fatalln("failed to create consumer", err)
	}

	iter, err := cons.Messages()
	if err != nil {
		panic(err)
	}

	nakDelay := cfg.GetDuration("queue." + name + ".nak_delay")
	if nakDelay <= 0 {
		nakDelay = 1 * time.Second
	}

	done := make(chan struct{})

	go func() {
		defer close(done)

		for {
			select {
			case <-ctx.Done():
				return
			default:
				msg, err := iter.Next()
				if errors.Is(err, jetstream.ErrMsgIteratorClosed) {
					return
				}
				if err != nil {
					slog.ErrorContext(ctx, "Error fetching message", slog.Any(constant.LogFieldErr, err))
					continue
				}

				if msg == nil {
					continue
				}

				var eventErr error
				if handler, ok := handlers[msg.Subject()]; ok {
					eventErr = handler(ctx, msg.Data())
				} else {
					slog.WarnContext(ctx, "no handler for subject", slog.String("subject", msg.Subject()))
				}

				if eventErr != nil {
					msg.NakWithDelay(nakDelay)
					continue
				}

				if err := msg.Ack(); err != nil {
					slog.ErrorContext(ctx, "Error acknowledging message",
						slog.Any(constant.LogFieldErr, err),
						slog.Any(constant.LogFieldPayload, string(msg.Data())),
						slog.String("subject", msg.Subject()),
					)
					continue
				}
			}
		}
	}()

	slog.InfoContext(ctx, name+" queue consumer started")

	<-ctx.Done()

	iter.Stop()
	<-done

	slog.InfoContext(ctx, name+" queue consumer stopped")
}
