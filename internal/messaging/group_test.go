package messaging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serroba/ttl-shortener/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRunnable struct {
	topic       string
	startErr    error
	shutdownErr error
	started     bool
	stopped     bool
	stopOrder   *[]string
}

func (m *mockRunnable) Topic() string {
	return m.topic
}

func (m *mockRunnable) Start(_ context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}

	m.started = true

	return nil
}

func (m *mockRunnable) Shutdown() error {
	m.stopped = true

	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.topic)
	}

	return m.shutdownErr
}

func TestConsumerGroup_Start(t *testing.T) {
	t.Run("starts all consumers", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		first := &mockRunnable{topic: "a"}
		second := &mockRunnable{topic: "b"}
		group.Add(first)
		group.Add(second)

		require.NoError(t, group.Start(context.Background()))

		assert.True(t, first.started)
		assert.True(t, second.started)
		assert.Equal(t, []string{"a", "b"}, group.Topics())
	})

	t.Run("stops started consumers when one fails", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		first := &mockRunnable{topic: "a"}
		failing := &mockRunnable{topic: "b", startErr: errors.New("subscribe refused")}
		never := &mockRunnable{topic: "c"}
		group.Add(first)
		group.Add(failing)
		group.Add(never)

		err := group.Start(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "start consumer for b")
		assert.True(t, first.stopped)
		assert.False(t, never.started)
	})

	t.Run("refuses a second start", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		group.Add(&mockRunnable{topic: "a"})

		require.NoError(t, group.Start(context.Background()))

		assert.Error(t, group.Start(context.Background()))
	})
}

func TestConsumerGroup_Shutdown(t *testing.T) {
	t.Run("stops in reverse order and closes subscriber", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())

		var order []string

		group.Add(&mockRunnable{topic: "a", stopOrder: &order})
		group.Add(&mockRunnable{topic: "b", stopOrder: &order})
		require.NoError(t, group.Start(context.Background()))

		require.NoError(t, group.Shutdown())

		assert.Equal(t, []string{"b", "a"}, order)
		assert.True(t, sub.closed)
	})

	t.Run("reports every failure", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		errA := errors.New("a failed")
		errB := errors.New("b failed")
		group.Add(&mockRunnable{topic: "a", shutdownErr: errA})
		group.Add(&mockRunnable{topic: "b", shutdownErr: errB})
		require.NoError(t, group.Start(context.Background()))

		err := group.Shutdown()

		require.ErrorIs(t, err, errA)
		assert.ErrorIs(t, err, errB)
	})

	t.Run("closes subscriber when never started", func(t *testing.T) {
		sub := newMockSubscriber()
		consumer := &mockRunnable{topic: "a"}
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		group.Add(consumer)

		require.NoError(t, group.Shutdown())

		assert.False(t, consumer.stopped)
		assert.True(t, sub.closed)
	})
}
