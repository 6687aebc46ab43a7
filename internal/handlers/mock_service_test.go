package handlers_test

import (
	"context"
	"errors"

	"github.com/serroba/ttl-shortener/internal/shortener"
)

var errMock = errors.New("mock error")

const testURL = "https://example.com/very/long/path"

// mockService is a test double for handlers.Shortener.
type mockService struct {
	shortenErr  error
	resolveErr  error
	resolveURL  string
	lastURL     string
	lastCode    string
	shortenHits int
}

func (m *mockService) Shorten(_ context.Context, candidate string) (*shortener.ShortURL, error) {
	m.shortenHits++
	m.lastURL = candidate

	if m.shortenErr != nil {
		return nil, m.shortenErr
	}

	return &shortener.ShortURL{
		Code:        "abc123",
		OriginalURL: candidate,
		ShortURL:    "http://localhost:5000/abc123",
	}, nil
}

func (m *mockService) Resolve(_ context.Context, code string) (string, error) {
	m.lastCode = code

	if m.resolveErr != nil {
		return "", m.resolveErr
	}

	return m.resolveURL, nil
}
