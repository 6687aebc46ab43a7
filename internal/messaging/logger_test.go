package messaging_test

import (
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/serroba/ttl-shortener/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	t.Run("maps levels and fields", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		logger := messaging.NewZapLogger(zap.New(core))

		logger.Info("subscribed", watermill.LogFields{"topic": "a"})
		logger.Trace("tick", nil)
		logger.Error("publish failed", errors.New("boom"), watermill.LogFields{"topic": "b"})

		entries := logs.All()
		require.Len(t, entries, 3)

		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, "a", entries[0].ContextMap()["topic"])
		assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
		assert.Equal(t, "boom", entries[2].ContextMap()["error"])
	})

	t.Run("With carries fields to later entries", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		logger := messaging.NewZapLogger(zap.New(core)).With(watermill.LogFields{"consumer_group": "repair"})

		logger.Debug("message received", watermill.LogFields{"uuid": "123"})

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "repair", entries[0].ContextMap()["consumer_group"])
		assert.Equal(t, "123", entries[0].ContextMap()["uuid"])
	})
}
