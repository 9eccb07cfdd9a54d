package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWildcardOriginValid(t *testing.T) {
	tests := []struct {
		pattern string
		scheme  string
		suffix  string
	}{
		{"https://*.example.com", "https://", ".example.com"},
		{"http://*.localhost.dev", "http://", ".localhost.dev"},
		{"https://*.lifelens-app.pages.dev", "https://", ".lifelens-app.pages.dev"},
	}

	for _, tt := range tests {
		w := parseWildcardOrigin(tt.pattern)
		require.NotNil(t, w, "pattern %q", tt.pattern)
		assert.Equal(t, tt.scheme, w.scheme)
		assert.Equal(t, tt.suffix, w.suffix)
	}
}

func TestParseWildcardOriginRejected(t *testing.T) {
	patterns := []string{
		"*.example.com",          // no scheme
		"*",                      // bare wildcard
		"https://example.*",      // wildcard not leading
		"https://*.*.example.com", // multiple wildcards
		"https://*example.com",   // no dot after wildcard
		"https://*.com",          // wildcard over a single-label domain
		"https://example.com",    // exact origin, not a wildcard
	}

	for _, pattern := range patterns {
		assert.Nil(t, parseWildcardOrigin(pattern), "pattern %q", pattern)
	}
}

func TestWildcardOriginMatches(t *testing.T) {
	w := parseWildcardOrigin("https://*.lifelens-app.pages.dev")
	require.NotNil(t, w)

	assert.True(t, w.matches("https://preview.lifelens-app.pages.dev"))
	assert.True(t, w.matches("https://a1b2c3d4.lifelens-app.pages.dev"))

	// Exactly one subdomain label, same scheme, full suffix.
	assert.False(t, w.matches("http://preview.lifelens-app.pages.dev"))
	assert.False(t, w.matches("https://lifelens-app.pages.dev"))
	assert.False(t, w.matches("https://a.b.lifelens-app.pages.dev"))
	assert.False(t, w.matches("https://evil-lifelens-app.pages.dev"))
	assert.False(t, w.matches("https://x.lifelens-app.pages.dev.evil.com"))
}
