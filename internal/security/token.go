package security

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// NewSessionToken returns 128 bits of entropy, hex-encoded (32 chars).
func NewSessionToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Credential builds the opaque bearer token handed to the extension. The
// client stores it as-is; only the API layer ever splits it back apart.
func Credential(userID, sessionToken string) string {
	return userID + ":" + sessionToken
}

// SplitCredential undoes Credential. The token itself is hex and never
// contains ':', so splitting on the first separator is unambiguous.
func SplitCredential(cred string) (userID, sessionToken string, ok bool) {
	userID, sessionToken, ok = strings.Cut(cred, ":")
	if !ok || userID == "" || sessionToken == "" {
		return "", "", false
	}
	return userID, sessionToken, true
}
