package middleware

import (
	"context"
	"net/http"
	"time"

	"reps-auth/internal/apierror"
	"reps-auth/internal/logger"
	"reps-auth/internal/session"
)

// unexported, collision-proof context key
type userIDContextKeyType struct{}

var userIDKey = userIDContextKeyType{}

// UserIDFromContext extracts the authenticated user ID from context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

type AuthMiddleware struct {
	Store session.Store
	now   func() time.Time
}

func NewAuthMiddleware(store session.Store) *AuthMiddleware {
	return &AuthMiddleware{Store: store, now: time.Now}
}

// RequireAuth admits requests that present an active session, by bearer
// header or cookie. Pending sessions are rejected until activated.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := session.IDFromRequest(r)
		if sessionID == "" {
			unauthorized(w)
			return
		}

		sess, err := a.Store.Get(r.Context(), sessionID)
		if err != nil {
			logger.Error("session lookup failed", map[string]any{
				"error": err.Error(),
			})
			unauthorized(w)
			return
		}
		if sess == nil {
			unauthorized(w)
			return
		}

		now := a.now()
		if !now.Before(sess.ExpiresAt) {
			_ = a.Store.Delete(r.Context(), sessionID)
			unauthorized(w)
			return
		}
		if !sess.Active(now) {
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, sess.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter) {
	apierror.Write(w, http.StatusUnauthorized, apierror.CodeUnauthorized, "You are not signed in.")
}
