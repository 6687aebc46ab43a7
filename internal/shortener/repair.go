package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// TopicReverseIndexRepair carries ReverseIndexRepair events.
const TopicReverseIndexRepair = "mapping.reverse.repair"

// ReverseIndexRepair asks a worker to restore a missing url -> code entry.
type ReverseIndexRepair struct {
	Code        string    `json:"code"`
	OriginalURL string    `json:"originalUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// RepairReverseIndex restores the reverse entry for a still-live forward entry,
// keeping the mapping's original expiry. Stale events are dropped.
func (s *Service) RepairReverseIndex(ctx context.Context, event *ReverseIndexRepair) error {
	remaining := event.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		s.logger.Debug("dropping expired repair", zap.String("code", event.Code))

		return nil
	}

	current, err := s.store.Get(ctx, ForwardKey(Code(event.Code)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}

		return fmt.Errorf("lookup forward index: %w", err)
	}

	if current != event.OriginalURL {
		s.logger.Debug("forward entry changed, skipping repair", zap.String("code", event.Code))

		return nil
	}

	written, err := s.store.SetNX(ctx, ReverseKey(event.OriginalURL), event.Code, remaining)
	if err != nil {
		return fmt.Errorf("write reverse index: %w", err)
	}

	s.logger.Info("reverse index repair processed",
		zap.String("code", event.Code),
		zap.Bool("written", written),
		zap.Duration("remaining", remaining),
	)

	return nil
}
