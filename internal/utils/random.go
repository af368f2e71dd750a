package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomString returns n random bytes, URL-safe base64 encoded without
// padding. crypto/rand.Read never fails on supported platforms.
func RandomString(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
