package perimeter

import (
	"crypto/sha256"

	"github.com/Anvoria/dashboard/internal/security"
)

// loopComparator satisfies security.Comparator with plain primitives: both
// sides are hashed to a fixed digest and compared byte by byte without an
// early exit.
type loopComparator struct{}

var _ security.Comparator = loopComparator{}

func (loopComparator) Equal(a, b string) bool {
	da := sha256.Sum256([]byte(a))
	db := sha256.Sum256([]byte(b))

	var diff byte
	for i := range da {
		diff |= da[i] ^ db[i]
	}
	return diff == 0
}
