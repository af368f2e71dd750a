package handler

import (
	"net/http"
	"net/url"

	"reps-auth/internal/apierror"
	"reps-auth/internal/logger"

	"github.com/gin-gonic/gin"
)

// Callback outcomes reported to the client's redirect URL.
const (
	flowStatusComplete  = "complete"
	flowStatusCancelled = "cancelled"
	flowStatusFailed    = "failed"
)

// login starts a federated flow. The caller names where the outcome is
// delivered with redirect_url.
func (h *Handler) login(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		apierror.Abort(c, http.StatusBadRequest, apierror.CodeUnknownProvider, "Unknown sign-in provider.")
		return
	}

	redirectURL := c.Query("redirect_url")
	if !isLoopbackURL(redirectURL) {
		apierror.Abort(c, http.StatusBadRequest, apierror.CodeInvalidRedirect, "Invalid redirect URL.")
		return
	}

	state := h.generateState(c)
	_, codeChallenge := h.generatePKCE(c)
	h.setFlowCookie(c, redirectCookieName, redirectURL)

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, codeChallenge))
}

func (h *Handler) callback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		apierror.Abort(c, http.StatusBadRequest, apierror.CodeUnknownProvider, "Unknown sign-in provider.")
		return
	}

	if !validateState(c) {
		apierror.Abort(c, http.StatusUnauthorized, apierror.CodeInvalidState, "Sign-in link expired. Please try again.")
		return
	}

	redirectURL := flowCookie(c, redirectCookieName)
	if !isLoopbackURL(redirectURL) {
		apierror.Abort(c, http.StatusBadRequest, apierror.CodeInvalidRedirect, "Invalid redirect URL.")
		return
	}

	codeVerifier := getPKCEVerifier(c)
	h.clearFlowCookies(c)

	failed := "Sign-in with " + p.Label() + " failed."

	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})

		if errParam == "access_denied" {
			redirectClient(c, redirectURL, url.Values{"status": {flowStatusCancelled}})
			return
		}
		redirectFailed(c, redirectURL, failed)
		return
	}

	code := c.Query("code")
	if code == "" || codeVerifier == "" {
		logger.Error("oauth callback missing code or verifier", map[string]any{
			"provider": providerName,
		})
		redirectFailed(c, redirectURL, failed)
		return
	}

	identity, err := p.ExchangeCode(c.Request.Context(), code, codeVerifier)
	if err != nil {
		logger.Error("oauth code exchange failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		redirectFailed(c, redirectURL, failed)
		return
	}

	userID, err := h.resolver.Resolve(c.Request.Context(), identity)
	if err != nil {
		logger.Error("failed to resolve user", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		redirectFailed(c, redirectURL, failed)
		return
	}

	sessionID, err := h.createPendingSession(c.Request.Context(), userID)
	if err != nil {
		logger.Error("failed to create session", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		redirectFailed(c, redirectURL, failed)
		return
	}

	logger.Info("oauth sign-in complete", map[string]any{
		"provider": providerName,
		"user_id":  userID,
		"ip":       c.ClientIP(),
	})

	redirectClient(c, redirectURL, url.Values{
		"status":             {flowStatusComplete},
		"created_session_id": {sessionID},
	})
}

func redirectFailed(c *gin.Context, redirectURL, message string) {
	redirectClient(c, redirectURL, url.Values{
		"status": {flowStatusFailed},
		"error":  {message},
	})
}

// redirectClient sends the browser back to the native client's loopback
// listener with the flow outcome in the query.
func redirectClient(c *gin.Context, redirectURL string, params url.Values) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		apierror.Abort(c, http.StatusBadRequest, apierror.CodeInvalidRedirect, "Invalid redirect URL.")
		return
	}

	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	u.RawQuery = q.Encode()

	c.Redirect(http.StatusFound, u.String())
}
