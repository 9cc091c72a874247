package credential

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromCookieHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", ""},
		{"only cookie", "dashboard_session_token=abc123", "abc123"},
		{"among others", "theme=dark; dashboard_session_token=abc123; lang=en", "abc123"},
		{"whitespace trimmed", "  dashboard_session_token =  abc123  ;theme=dark", "abc123"},
		{"value containing equals", "dashboard_session_token=YWJj==; x=1", "YWJj=="},
		{"absent", "theme=dark; lang=en", ""},
		{"similar name", "dashboard_session_token_old=abc; xdashboard_session_token=def", ""},
		{"segment without equals", "garbage; dashboard_session_token=abc", "abc"},
		{"empty value", "dashboard_session_token=", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromCookieHeader(tt.header))
		})
	}
}

func TestBearer(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer s3cret", "s3cret", true},
		{"bearer s3cret", "s3cret", true},
		{"Bearer   padded  ", "padded", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"", "", false},
		{"s3cret", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := Bearer(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWellFormed(t *testing.T) {
	assert.True(t, WellFormed(strings.Repeat("ab", 32)))
	assert.False(t, WellFormed(strings.Repeat("ab", 31)))
	assert.False(t, WellFormed(strings.Repeat("zz", 32)))
	assert.False(t, WellFormed(""))
}
