package shortener

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/serroba/ttl-shortener/internal/messaging"
	"go.uber.org/zap"
)

const (
	// DefaultTTL is how long both index entries of a mapping live.
	DefaultTTL = 24 * time.Hour
	// DefaultMaxAttempts caps code generation retries on collision.
	DefaultMaxAttempts = 10
)

// Outcomes reported to an Observer.
const (
	OutcomeCreated   = "created"
	OutcomeReused    = "reused"
	OutcomeInvalid   = "invalid"
	OutcomeExhausted = "exhausted"
	OutcomeFound     = "found"
	OutcomeNotFound  = "not_found"
	OutcomeBadFormat = "bad_format"
	OutcomeError     = "error"
)

// Observer is notified of shortening and resolution outcomes.
type Observer interface {
	Shortened(outcome string)
	Resolved(outcome string)
	Collision()
}

// Config holds the tunables of a Service.
type Config struct {
	BaseURL     string
	TTL         time.Duration
	MaxAttempts int
}

// Service implements create-or-reuse shortening and code resolution over a Store.
type Service struct {
	store         Store
	generateCode  CodeGenerator
	publishRepair messaging.Publish[ReverseIndexRepair]
	observer      Observer
	logger        *zap.Logger
	cfg           Config
	now           func() time.Time
}

// NewService creates a new shortening service.
func NewService(
	store Store,
	generator CodeGenerator,
	publishRepair messaging.Publish[ReverseIndexRepair],
	observer Observer,
	logger *zap.Logger,
	cfg Config,
) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Service{
		store:         store,
		generateCode:  generator,
		publishRepair: publishRepair,
		observer:      observer,
		logger:        logger,
		cfg:           cfg,
		now:           time.Now,
	}
}

// Link returns the public short link for code.
func (s *Service) Link(code Code) string {
	return s.cfg.BaseURL + "/" + string(code)
}

// Shorten validates candidate and returns its live short link, creating one when none exists.
// Validation failures are returned as *ValidationError.
func (s *Service) Shorten(ctx context.Context, candidate string) (*ShortURL, error) {
	originalURL, err := Validate(candidate)
	if err != nil {
		s.observer.Shortened(OutcomeInvalid)

		return nil, err
	}

	existing, err := s.store.Get(ctx, ReverseKey(originalURL))
	if err == nil {
		s.observer.Shortened(OutcomeReused)

		return s.result(Code(existing), originalURL, true, time.Time{}), nil
	}

	if !errors.Is(err, ErrNotFound) {
		s.observer.Shortened(OutcomeError)

		return nil, fmt.Errorf("lookup reverse index: %w", err)
	}

	code, expiresAt, err := s.claimCode(ctx, originalURL)
	if err != nil {
		if errors.Is(err, ErrGenerationExhausted) {
			s.observer.Shortened(OutcomeExhausted)
			s.logger.Error("short code generation exhausted",
				zap.Int("attempts", s.cfg.MaxAttempts),
			)
		} else {
			s.observer.Shortened(OutcomeError)
		}

		return nil, err
	}

	winner, reused := s.writeReverse(ctx, code, originalURL, expiresAt)
	if reused {
		s.observer.Shortened(OutcomeReused)

		return s.result(winner, originalURL, true, time.Time{}), nil
	}

	s.observer.Shortened(OutcomeCreated)
	s.logger.Debug("short url created",
		zap.String("code", string(code)),
		zap.Time("expiresAt", expiresAt),
	)

	return s.result(code, originalURL, false, expiresAt), nil
}

// claimCode generates codes until one is claimed in the forward index. The returned
// expiry is taken at the successful claim and bounds the reverse entry as well.
func (s *Service) claimCode(ctx context.Context, originalURL string) (Code, time.Time, error) {
	for range s.cfg.MaxAttempts {
		code := Code(s.generateCode())
		if isReservedCode(string(code)) {
			continue
		}

		key := ForwardKey(code)

		taken, err := s.store.Exists(ctx, key)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("check forward index: %w", err)
		}

		if taken {
			s.observer.Collision()

			continue
		}

		// A concurrent request may have claimed the code since Exists.
		expiresAt := s.now().Add(s.cfg.TTL)

		claimed, err := s.store.SetNX(ctx, key, originalURL, s.cfg.TTL)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("write forward index: %w", err)
		}

		if !claimed {
			s.observer.Collision()

			continue
		}

		return code, expiresAt, nil
	}

	return "", time.Time{}, ErrGenerationExhausted
}

// writeReverse records url -> code with whatever remains of the forward entry's TTL, so the
// reverse entry never outlives it. When a concurrent request already owns the reverse
// entry, that request's code is returned with reused set.
func (s *Service) writeReverse(ctx context.Context, code Code, originalURL string, expiresAt time.Time) (Code, bool) {
	key := ReverseKey(originalURL)

	remaining := expiresAt.Sub(s.now())
	if remaining <= 0 {
		s.logger.Warn("forward entry expired before reverse write", zap.String("code", string(code)))

		return code, false
	}

	claimed, err := s.store.SetNX(ctx, key, string(code), remaining)
	if err != nil {
		s.logger.Warn("reverse index write failed, scheduling repair",
			zap.String("code", string(code)),
			zap.Error(err),
		)
		s.scheduleRepair(ctx, code, originalURL, expiresAt)

		return code, false
	}

	if claimed {
		return code, false
	}

	winner, err := s.store.Get(ctx, key)
	if err == nil {
		s.logger.Debug("concurrent shorten won reverse index",
			zap.String("code", string(code)),
			zap.String("winner", winner),
		)

		return Code(winner), true
	}

	if errors.Is(err, ErrNotFound) {
		// The winner expired in between; take the slot.
		remaining = expiresAt.Sub(s.now())
		if remaining <= 0 {
			return code, false
		}

		if err = s.store.Set(ctx, key, string(code), remaining); err == nil {
			return code, false
		}
	}

	s.logger.Warn("reverse index unreadable after lost claim",
		zap.String("code", string(code)),
		zap.Error(err),
	)
	s.scheduleRepair(ctx, code, originalURL, expiresAt)

	return code, false
}

func (s *Service) scheduleRepair(ctx context.Context, code Code, originalURL string, expiresAt time.Time) {
	event := &ReverseIndexRepair{
		Code:        string(code),
		OriginalURL: originalURL,
		ExpiresAt:   expiresAt,
	}

	if err := s.publishRepair(ctx, event); err != nil {
		s.logger.Error("failed to publish reverse index repair",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}
}

func (s *Service) result(code Code, originalURL string, reused bool, expiresAt time.Time) *ShortURL {
	return &ShortURL{
		Code:        code,
		OriginalURL: originalURL,
		ShortURL:    s.Link(code),
		Reused:      reused,
		ExpiresAt:   expiresAt,
	}
}

// Resolve returns the original url stored for code.
// Non-alphanumeric codes fail with ErrBadFormat before the store is consulted.
func (s *Service) Resolve(ctx context.Context, code string) (string, error) {
	if !IsValidCode(code) {
		s.observer.Resolved(OutcomeBadFormat)

		return "", ErrBadFormat
	}

	originalURL, err := s.store.Get(ctx, ForwardKey(Code(code)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.observer.Resolved(OutcomeNotFound)

			return "", ErrNotFound
		}

		s.observer.Resolved(OutcomeError)

		return "", fmt.Errorf("lookup forward index: %w", err)
	}

	s.observer.Resolved(OutcomeFound)

	return originalURL, nil
}
