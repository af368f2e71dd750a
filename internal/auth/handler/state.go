package handler

import (
	"crypto/subtle"
	"net"
	"net/http"
	"net/url"
	"time"

	"reps-auth/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	stateCookieName    = "__oauth_state"
	redirectCookieName = "__oauth_redirect"
	flowCookieTTL      = 5 * time.Minute
)

func (h *Handler) setFlowCookie(c *gin.Context, name, value string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/oauth",
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(flowCookieTTL.Seconds()),
	})
}

func (h *Handler) clearFlowCookies(c *gin.Context) {
	for _, name := range []string{stateCookieName, pkceCookieName, redirectCookieName} {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     name,
			Path:     "/oauth",
			HttpOnly: true,
			Secure:   h.opts.SecureCookies,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

func flowCookie(c *gin.Context, name string) string {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *Handler) generateState(c *gin.Context) string {
	state := utils.RandomString(32)
	h.setFlowCookie(c, stateCookieName, state)
	return state
}

func validateState(c *gin.Context) bool {
	stateQuery := c.Query("state")
	if stateQuery == "" {
		return false
	}

	cookie := flowCookie(c, stateCookieName)
	if cookie == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(cookie), []byte(stateQuery)) == 1
}

// isLoopbackURL accepts only plain-http redirects back to this machine,
// which is where native sign-in clients listen.
func isLoopbackURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "http" || u.User != nil {
		return false
	}

	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
