package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/serroba/ttl-shortener/internal/i18n"
	"github.com/serroba/ttl-shortener/internal/shortener"
	"go.uber.org/zap"
)

// Shortener is the service behind the URL handlers.
type Shortener interface {
	Shorten(ctx context.Context, candidate string) (*shortener.ShortURL, error)
	Resolve(ctx context.Context, code string) (string, error)
}

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service    Shortener
	translator *i18n.Translator
	logger     *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(service Shortener, translator *i18n.Translator, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		service:    service,
		translator: translator,
		logger:     logger,
	}
}

// CreateFromQuery handles GET /api/create?originalUrl=...
func (h *URLHandler) CreateFromQuery(ctx context.Context, req *CreateQueryRequest) (*CreateResponse, error) {
	return h.create(ctx, req.OriginalURL, req.AcceptLanguage)
}

// CreateFromBody handles POST /api/create with a JSON body.
func (h *URLHandler) CreateFromBody(ctx context.Context, req *CreateBodyRequest) (*CreateResponse, error) {
	return h.create(ctx, req.Body.OriginalURL, req.AcceptLanguage)
}

func (h *URLHandler) create(ctx context.Context, originalURL, acceptLanguage string) (*CreateResponse, error) {
	shortURL, err := h.service.Shorten(ctx, originalURL)
	if err != nil {
		return nil, h.apiError(err, acceptLanguage)
	}

	resp := &CreateResponse{}
	resp.Body.OriginalURL = shortURL.OriginalURL
	resp.Body.ShortCode = string(shortURL.Code)
	resp.Body.ShortURL = shortURL.ShortURL
	resp.Body.Message = h.translator.Message(acceptLanguage, i18n.KeyCreated)

	return resp, nil
}

// RedirectToURL handles GET /r/{code}.
func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	originalURL, err := h.service.Resolve(ctx, req.Code)
	if err != nil {
		return nil, h.apiError(err, req.AcceptLanguage)
	}

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: originalURL,
	}, nil
}

func (h *URLHandler) apiError(err error, acceptLanguage string) error {
	message := h.translator.Message(acceptLanguage, i18n.KeyForError(err))

	switch {
	case errors.Is(err, shortener.ErrInvalidURL):
		h.logger.Debug("rejected url", zap.Error(err))

		return NewAPIError(http.StatusBadRequest, message)
	case errors.Is(err, shortener.ErrBadFormat):
		return NewAPIError(http.StatusBadRequest, message)
	case errors.Is(err, shortener.ErrNotFound):
		return NewAPIError(http.StatusNotFound, message)
	default:
		h.logger.Error("request failed", zap.Error(err))

		return NewAPIError(http.StatusInternalServerError, message)
	}
}
