package shortener_test

import (
	"strings"
	"testing"

	"github.com/serroba/ttl-shortener/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Accepts(t *testing.T) {
	valid := []string{
		"https://example.com",
		"https://example.com/a",
		"http://sub.example.co.uk/path?q=1",
		"https://example.com:8443/deep/path",
		"https://openai.com",
		"https://my-site.example.org/",
	}

	for _, candidate := range valid {
		t.Run(candidate, func(t *testing.T) {
			got, err := shortener.Validate(candidate)

			require.NoError(t, err)
			assert.Equal(t, candidate, got, "accepted urls are returned verbatim")
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason shortener.Reason
	}{
		{name: "empty", input: "", reason: shortener.ReasonEmpty},
		{name: "too long", input: "https://example.com/" + strings.Repeat("a", 2048), reason: shortener.ReasonTooLong},
		{name: "unparseable", input: "http://[::1", reason: shortener.ReasonUnparseable},
		{name: "ftp scheme", input: "ftp://example.com/file", reason: shortener.ReasonScheme},
		{name: "no scheme", input: "example.com/a", reason: shortener.ReasonScheme},
		{name: "javascript scheme", input: "javascript:alert(1)", reason: shortener.ReasonScheme},
		{name: "empty host", input: "http:///path", reason: shortener.ReasonHost},
		{name: "single label host", input: "http://intranet/x", reason: shortener.ReasonPattern},
		{name: "numeric tld", input: "http://169.254.1.1/x", reason: shortener.ReasonPattern},
		{name: "loopback ip", input: "http://127.0.0.1/x", reason: shortener.ReasonPattern},
		{name: "localhost", input: "http://localhost/x", reason: shortener.ReasonPattern},
		{name: "mdns suffix", input: "http://foo.local/x", reason: shortener.ReasonBlockedHost},
		{name: "localhost subdomain", input: "http://api.localhost/x", reason: shortener.ReasonBlockedHost},
		{name: "internal suffix", input: "https://db.corp.internal/", reason: shortener.ReasonBlockedHost},
		{name: "uppercase mdns suffix", input: "http://printer.LOCAL/x", reason: shortener.ReasonBlockedHost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := shortener.Validate(tt.input)

			assert.Empty(t, got)
			require.ErrorIs(t, err, shortener.ErrInvalidURL)

			var verr *shortener.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.reason, verr.Reason)
			assert.NotEmpty(t, verr.Error())
		})
	}
}

func TestValidate_SSRFTargetsNeverAccepted(t *testing.T) {
	for _, candidate := range []string{
		"http://localhost/x",
		"http://127.0.0.1/x",
		"http://169.254.1.1/x",
		"http://foo.local/x",
	} {
		_, err := shortener.Validate(candidate)
		assert.ErrorIs(t, err, shortener.ErrInvalidURL, candidate)
	}
}

func TestValidate_MaxLengthBoundary(t *testing.T) {
	prefix := "https://example.com/"
	atLimit := prefix + strings.Repeat("a", shortener.MaxURLLength-len(prefix))

	_, err := shortener.Validate(atLimit)
	assert.NoError(t, err)

	_, err = shortener.Validate(atLimit + "a")
	assert.ErrorIs(t, err, shortener.ErrInvalidURL)
}
