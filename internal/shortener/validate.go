package shortener

import (
	"net/netip"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxURLLength is the longest url accepted for shortening.
const MaxURLLength = 2048

var urlPattern = regexp.MustCompile(`^(https?://)?[a-zA-Z0-9\-\.]+\.[a-zA-Z]{2,}(:\d+)?(/.*)?$`)

var blockedHosts = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"0.0.0.0":   {},
}

var blockedSuffixes = []string{".local", ".localhost", ".internal"}

// Validate checks that candidate is an absolute http(s) url on a public dotted host.
// It returns the url unchanged on success and a *ValidationError otherwise.
func Validate(candidate string) (string, error) {
	if candidate == "" {
		return "", &ValidationError{Reason: ReasonEmpty}
	}

	if utf8.RuneCountInString(candidate) > MaxURLLength {
		return "", &ValidationError{Reason: ReasonTooLong}
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return "", &ValidationError{Reason: ReasonUnparseable}
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &ValidationError{Reason: ReasonScheme}
	}

	if u.Host == "" {
		return "", &ValidationError{Reason: ReasonHost}
	}

	if !urlPattern.MatchString(candidate) {
		return "", &ValidationError{Reason: ReasonPattern}
	}

	if isBlockedHost(strings.ToLower(u.Hostname())) {
		return "", &ValidationError{Reason: ReasonBlockedHost}
	}

	return candidate, nil
}

func isBlockedHost(host string) bool {
	if _, ok := blockedHosts[host]; ok {
		return true
	}

	// link-local
	if strings.HasPrefix(host, "169.254") {
		return true
	}

	for _, suffix := range blockedSuffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}

	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() || addr.IsMulticast() || addr.IsUnspecified()
}
