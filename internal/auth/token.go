package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewToken mints an opaque bearer token. The plaintext is returned exactly
// once; only Digest(plaintext) is ever persisted.
func NewToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return id + hex.EncodeToString(buf), nil
}

// Digest returns the hex SHA-256 of a plaintext token.
func Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
