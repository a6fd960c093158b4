package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt
)

// LoadOrCreatePepper loads the pepper stored at path, generating and
// persisting a fresh one when the file does not exist yet.
//
// The pepper must stay stable for the lifetime of the stored password hashes,
// losing the file invalidates every admin credential.
func LoadOrCreatePepper(path string) (string, error) {
	if path == "" {
		return "", errors.New("cryptox: pepper path not set")
	}

	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", err
	}

	pepperBytes, err := os.ReadFile(path)
	if err == nil {
		return string(pepperBytes), nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	// Generate a new pepper and save it to the file
	raw := make([]byte, keyLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	pepper := base64.RawURLEncoding.EncodeToString(raw)

	if err := os.WriteFile(path, []byte(pepper), 0600); err != nil {
		return "", err
	}
	return pepper, nil
}
