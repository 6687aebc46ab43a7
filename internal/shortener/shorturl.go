package shortener

import "time"

// Code represents a short URL code.
type Code string

// ShortURL is the result of shortening a long URL.
type ShortURL struct {
	Code        Code
	OriginalURL string
	ShortURL    string
	// Reused is true when an existing live mapping was returned.
	Reused    bool
	ExpiresAt time.Time
}

const (
	forwardPrefix = "short:"
	reversePrefix = "url:"
)

// ForwardKey returns the store key of the code -> url entry.
func ForwardKey(code Code) string {
	return forwardPrefix + string(code)
}

// ReverseKey returns the store key of the url -> code entry.
func ReverseKey(originalURL string) string {
	return reversePrefix + originalURL
}
