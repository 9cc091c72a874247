package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantTimeEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "automation-secret", "automation-secret", true},
		{"both empty", "", "", true},
		{"different content", "automation-secret", "automation-secreT", false},
		{"different length", "short", "a much longer value", false},
		{"prefix", "secret", "secret-and-more", false},
		{"one empty", "", "secret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConstantTimeEqual([]byte(tt.a), []byte(tt.b)))
			assert.Equal(t, tt.want, ConstantTimeEqual([]byte(tt.b), []byte(tt.a)), "comparison must be symmetric")
			assert.Equal(t, tt.want, DigestComparator{}.Equal(tt.a, tt.b))
		})
	}
}
