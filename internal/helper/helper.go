package helper

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash8 is a short stable digest for log lines. Google subjects and session
// tokens must never be logged raw; log Hash8 of them instead so entries for
// the same principal still correlate.
func Hash8(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
