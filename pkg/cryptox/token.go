package cryptox

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Token size constants (in bytes before encoding).
const (
	// TokenSize128 provides 128 bits of entropy (22 chars base64url).
	TokenSize128 = 16
	// TokenSize256 provides 256 bits of entropy (43 chars base64url).
	TokenSize256 = 32
)

// GenerateToken creates a cryptographically secure random token of the specified byte length.
// The token is returned as a base64url-encoded string (URL-safe, no padding).
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Fingerprinter derives deterministic lookup keys for bearer tokens. Only the
// fingerprint is persisted, so a leaked database cannot be replayed without
// the key.
type Fingerprinter struct {
	key []byte
}

// NewFingerprinter returns a Fingerprinter keyed with secret.
func NewFingerprinter(secret []byte) *Fingerprinter {
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Fingerprinter{key: key}
}

// Fingerprint returns the HMAC-SHA256 of token, base64url encoded (43 chars).
func (f *Fingerprinter) Fingerprint(token string) string {
	mac := hmac.New(sha256.New, f.key)
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
