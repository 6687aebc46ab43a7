package shortener

import "errors"

var (
	// ErrNotFound is returned when a code (or url) has no live mapping.
	ErrNotFound = errors.New("url not found")

	// ErrBadFormat is returned when a code fails the alphanumeric guard.
	ErrBadFormat = errors.New("invalid code format")

	// ErrInvalidURL matches every *ValidationError.
	ErrInvalidURL = errors.New("invalid url")

	// ErrGenerationExhausted is returned when no free code was found within the attempt cap.
	ErrGenerationExhausted = errors.New("failed to generate unique short code")
)

// Reason identifies which validation rule rejected a url.
type Reason string

const (
	ReasonEmpty       Reason = "empty"
	ReasonTooLong     Reason = "too_long"
	ReasonUnparseable Reason = "unparseable"
	ReasonScheme      Reason = "scheme"
	ReasonHost        Reason = "host"
	ReasonPattern     Reason = "pattern"
	ReasonBlockedHost Reason = "blocked_host"
)

var reasonText = map[Reason]string{
	ReasonEmpty:       "url is required",
	ReasonTooLong:     "url exceeds 2048 characters",
	ReasonUnparseable: "url cannot be parsed",
	ReasonScheme:      "url scheme must be http or https",
	ReasonHost:        "url host is empty",
	ReasonPattern:     "url host must be a dotted domain name",
	ReasonBlockedHost: "url points to a local or internal address",
}

// ValidationError reports why a candidate url was rejected.
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	if text, ok := reasonText[e.Reason]; ok {
		return text
	}

	return "invalid url"
}

// Is makes errors.Is(err, ErrInvalidURL) true for every validation failure.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidURL
}
