package handler

import (
	"crypto/sha256"
	"encoding/base64"

	"reps-auth/internal/utils"

	"github.com/gin-gonic/gin"
)

const pkceCookieName = "__oauth_pkce"

// generatePKCE issues a fresh S256 verifier in a flow cookie and returns
// it with its challenge.
func (h *Handler) generatePKCE(c *gin.Context) (verifier string, challenge string) {
	verifier = utils.RandomString(32)

	hash := sha256.Sum256([]byte(verifier))
	challenge = base64.RawURLEncoding.EncodeToString(hash[:])

	h.setFlowCookie(c, pkceCookieName, verifier)
	return verifier, challenge
}

func getPKCEVerifier(c *gin.Context) string {
	return flowCookie(c, pkceCookieName)
}
