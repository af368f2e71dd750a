package handler

import (
	"errors"
	"net/http"

	"reps-auth/internal/apierror"
	"reps-auth/internal/logger"
	"reps-auth/internal/middleware"
	"reps-auth/internal/session"
	"reps-auth/internal/signin"

	"github.com/gin-gonic/gin"
)

type activateResponse struct {
	ID     string         `json:"id"`
	Status session.Status `json:"status"`
}

// activateSession makes a pending session current. Repeating it is harmless.
func (h *Handler) activateSession(c *gin.Context) {
	sessionID := c.Param("id")

	sess, err := h.sessionStore.Activate(c.Request.Context(), sessionID)
	if errors.Is(err, session.ErrNotFound) {
		apierror.Abort(c, http.StatusNotFound, apierror.CodeSessionNotFound, "Session not found.")
		return
	}
	if err != nil {
		logger.Error("session activation failed", map[string]any{
			"error": err.Error(),
		})
		apierror.Abort(c, http.StatusInternalServerError, apierror.CodeInternal, signin.MessageFallback)
		return
	}

	session.SetCookie(c.Writer, sess.SessionID, sess.ExpiresAt, h.cookieOptions())

	logger.Info("session activated", map[string]any{
		"user_id": sess.UserID,
		"ip":      c.ClientIP(),
	})

	c.JSON(http.StatusOK, activateResponse{ID: sess.SessionID, Status: sess.Status})
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id": c.GetString(middleware.GinUserIDKey),
	})
}

// Logout ends the presented session, if any, and always answers 204.
func (h *Handler) Logout(c *gin.Context) {
	if sessionID := session.IDFromRequest(c.Request); sessionID != "" {
		// best-effort
		if err := h.sessionStore.Delete(c.Request.Context(), sessionID); err != nil {
			logger.Warn("session delete failed", map[string]any{
				"error": err.Error(),
			})
		}
		logger.Info("logout", map[string]any{
			"ip": c.ClientIP(),
		})
	}

	session.ClearCookie(c.Writer, h.cookieOptions())
	c.Status(http.StatusNoContent)
}
