package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// IDPrefix marks session identifiers so they are recognisable in logs and
// bearer headers.
const IDPrefix = "sess_"

// GenerateID returns a prefixed session ID carrying 256 bits of entropy.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return IDPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

// ValidID reports whether id has the shape GenerateID produces. It lets
// callers reject garbage before a store round trip.
func ValidID(id string) bool {
	raw, ok := strings.CutPrefix(id, IDPrefix)
	if !ok {
		return false
	}
	b, err := base64.RawURLEncoding.DecodeString(raw)
	return err == nil && len(b) == 32
}
