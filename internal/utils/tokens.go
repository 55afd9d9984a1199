package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// NewOpaqueToken returns a URL-safe random token of nBytes entropy.
// Used for session ids and OAuth state values.
func NewOpaqueToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32 // 256 bits by default
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
