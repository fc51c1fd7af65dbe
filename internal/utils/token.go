package utils

import (
	"crypto/rand"
	"encoding/base64"
)

const refreshTokenBytes = 48

// GenerateRefreshToken returns a URL-safe opaque token with 48 bytes of
// entropy. It carries no claims; the mapping to a user lives only in the
// refresh_tokens table.
func GenerateRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
