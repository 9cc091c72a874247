// Package credential extracts authentication material from HTTP headers.
// It has no storage dependencies so both the perimeter and the origin tier can use it.
package credential

import (
	"encoding/hex"
	"strings"
)

// CookieName is the cookie carrying the raw session token.
const CookieName = "dashboard_session_token"

// TokenLength is the length of a well formed session token.
const TokenLength = 64

// FromCookieHeader returns the session token from a raw Cookie header, or ""
// when the cookie is absent. Segments are split on ';' and then on the first
// '=' so values may themselves contain '='.
func FromCookieHeader(header string) string {
	for _, part := range strings.Split(header, ";") {
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		if strings.TrimSpace(name) == CookieName {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// Bearer returns the credential of an "Authorization: Bearer <value>" header.
func Bearer(header string) (string, bool) {
	scheme, value, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// WellFormed reports whether token has the shape of an issued session token.
// It says nothing about whether the session exists.
func WellFormed(token string) bool {
	if len(token) != TokenLength {
		return false
	}
	_, err := hex.DecodeString(token)
	return err == nil
}
