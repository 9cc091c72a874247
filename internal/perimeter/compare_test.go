package perimeter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Anvoria/dashboard/internal/security"
)

func TestLoopComparator_MatchesOriginComparator(t *testing.T) {
	pairs := [][2]string{
		{"secret", "secret"},
		{"secret", "Secret"},
		{"secret", "secret-longer"},
		{"", ""},
		{"", "x"},
	}

	origin := security.DigestComparator{}
	for _, p := range pairs {
		assert.Equal(t, origin.Equal(p[0], p[1]), loopComparator{}.Equal(p[0], p[1]), "%q vs %q", p[0], p[1])
	}
}
