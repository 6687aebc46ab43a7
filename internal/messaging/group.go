package messaging

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Runnable is a topic consumer the group can start and stop.
type Runnable interface {
	Topic() string
	Start(ctx context.Context) error
	Shutdown() error
}

// ConsumerGroup runs consumers that share one subscriber and owns that subscriber's lifetime.
type ConsumerGroup struct {
	mu         sync.Mutex
	consumers  []Runnable
	running    []Runnable
	subscriber message.Subscriber
	logger     *zap.Logger
}

// NewConsumerGroup creates an empty group over subscriber.
func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Add registers a consumer. Consumers added after Start are not started.
func (g *ConsumerGroup) Add(consumer Runnable) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.consumers = append(g.consumers, consumer)
}

// Topics lists the topics of the registered consumers.
func (g *ConsumerGroup) Topics() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	topics := make([]string, 0, len(g.consumers))
	for _, consumer := range g.consumers {
		topics = append(topics, consumer.Topic())
	}

	return topics
}

// Start starts every consumer. If one fails, the ones already running are stopped.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.running) > 0 {
		return errors.New("consumer group already started")
	}

	for _, consumer := range g.consumers {
		if err := consumer.Start(ctx); err != nil {
			startErr := fmt.Errorf("start consumer for %s: %w", consumer.Topic(), err)

			return errors.Join(startErr, g.stopRunning())
		}

		g.running = append(g.running, consumer)
	}

	g.logger.Info("consumer group started", zap.Strings("topics", g.topicsLocked()))

	return nil
}

// Shutdown stops running consumers in reverse start order, then closes the subscriber.
// Every failure is reported.
func (g *ConsumerGroup) Shutdown() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.logger.Info("shutting down consumer group")

	return errors.Join(g.stopRunning(), g.subscriber.Close())
}

func (g *ConsumerGroup) stopRunning() error {
	var errs []error

	for _, consumer := range slices.Backward(g.running) {
		if err := consumer.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("stop consumer for %s: %w", consumer.Topic(), err))
		}
	}

	g.running = nil

	return errors.Join(errs...)
}

func (g *ConsumerGroup) topicsLocked() []string {
	topics := make([]string, 0, len(g.running))
	for _, consumer := range g.running {
		topics = append(topics, consumer.Topic())
	}

	return topics
}
