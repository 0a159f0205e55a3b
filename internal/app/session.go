package app

import (
	"time"

	"github.com/google/uuid"
)

const sessionTimeFormat = "20060102_150405"

// newSessionID returns <timestamp>_<short-uuid>; the suffix keeps requests
// started within the same second apart.
func newSessionID(now time.Time) string {
	return now.Format(sessionTimeFormat) + "_" + uuid.NewString()[:8]
}
