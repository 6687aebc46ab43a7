package i18n

import (
	"errors"

	"github.com/serroba/ttl-shortener/internal/shortener"
)

// KeyForError maps a service error to the message shown to users.
func KeyForError(err error) Key {
	var verr *shortener.ValidationError

	switch {
	case errors.As(err, &verr) && verr.Reason == shortener.ReasonEmpty:
		return KeyURLRequired
	case errors.Is(err, shortener.ErrInvalidURL):
		return KeyInvalidURL
	case errors.Is(err, shortener.ErrBadFormat):
		return KeyBadFormat
	case errors.Is(err, shortener.ErrNotFound):
		return KeyNotFound
	case errors.Is(err, shortener.ErrGenerationExhausted):
		return KeyExhausted
	default:
		return KeyInternal
	}
}
