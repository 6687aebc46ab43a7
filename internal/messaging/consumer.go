package messaging

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// DefaultMaxDeliveries bounds how often a failing message is handed to the handler.
const DefaultMaxDeliveries = 5

// Handler processes a single event.
type Handler[T any] func(ctx context.Context, event *T) error

// Consumer subscribes to a topic and decodes each message into T before calling its handler.
//
// Undecodable messages are acked and dropped. Handler failures are nacked for redelivery
// until a message has failed maxDeliveries times, after which it is acked and dropped.
type Consumer[T any] struct {
	subscriber    message.Subscriber
	topic         string
	handler       Handler[T]
	logger        *zap.Logger
	maxDeliveries int
	failures      map[string]int
	cancel        context.CancelFunc
	done          chan struct{}
}

// NewConsumer creates a consumer of T events on topic.
func NewConsumer[T any](
	subscriber message.Subscriber,
	topic string,
	handler Handler[T],
	logger *zap.Logger,
) *Consumer[T] {
	return &Consumer[T]{
		subscriber:    subscriber,
		topic:         topic,
		handler:       handler,
		logger:        logger.With(zap.String("topic", topic)),
		maxDeliveries: DefaultMaxDeliveries,
		failures:      make(map[string]int),
		done:          make(chan struct{}),
	}
}

// WithMaxDeliveries overrides DefaultMaxDeliveries. Values below one are ignored.
func (c *Consumer[T]) WithMaxDeliveries(n int) *Consumer[T] {
	if n > 0 {
		c.maxDeliveries = n
	}

	return c
}

// Topic returns the topic this consumer subscribes to.
func (c *Consumer[T]) Topic() string {
	return c.topic
}

// Start subscribes and processes messages in the background until ctx ends or Shutdown.
func (c *Consumer[T]) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	msgs, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		c.cancel()
		close(c.done)

		return err
	}

	go c.consumeLoop(ctx, msgs)

	return nil
}

func (c *Consumer[T]) consumeLoop(ctx context.Context, msgs <-chan *message.Message) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			c.handleMessage(ctx, msg)
		}
	}
}

func (c *Consumer[T]) handleMessage(ctx context.Context, msg *message.Message) {
	logger := c.logger.With(zap.String("uuid", msg.UUID))

	var event T
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		logger.Error("dropping undecodable message", zap.Error(err))
		msg.Ack()

		return
	}

	if err := c.handler(ctx, &event); err != nil {
		c.failures[msg.UUID]++

		attempts := c.failures[msg.UUID]
		if attempts >= c.maxDeliveries {
			delete(c.failures, msg.UUID)
			logger.Error("dropping message after repeated failures",
				zap.Int("attempts", attempts),
				zap.Error(err),
			)
			msg.Ack()

			return
		}

		logger.Warn("failed to handle event, requesting redelivery",
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		msg.Nack()

		return
	}

	delete(c.failures, msg.UUID)
	msg.Ack()

	logger.Debug("processed event",
		zap.String(MetadataPublishedAt, msg.Metadata.Get(MetadataPublishedAt)),
	)
}

// Shutdown stops the consumer and waits for the in-flight message to complete.
func (c *Consumer[T]) Shutdown() error {
	if c.cancel == nil {
		return nil
	}

	c.cancel()
	<-c.done

	return nil
}
