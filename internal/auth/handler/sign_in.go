package handler

import (
	"errors"
	"net/http"
	"strings"

	"reps-auth/internal/apierror"
	"reps-auth/internal/auth/credentials"
	"reps-auth/internal/logger"
	"reps-auth/internal/signin"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const messageInvalidCredentials = "Invalid email or password."

type signInRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// createSignIn runs one password sign-in attempt. The response reports how
// far the attempt got; only a complete attempt carries a session.
func (h *Handler) createSignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.Abort(c, http.StatusBadRequest, apierror.CodeInvalidRequest, "Invalid request body.")
		return
	}

	attempt := signin.Attempt{ID: uuid.NewString()}
	identifier := strings.TrimSpace(req.Identifier)

	switch {
	case identifier == "":
		attempt.Status = signin.StatusNeedsIdentifier
		c.JSON(http.StatusOK, attempt)
		return
	case req.Password == "":
		attempt.Status = signin.StatusNeedsFirstFactor
		c.JSON(http.StatusOK, attempt)
		return
	}

	account, err := h.authenticator.Authenticate(c.Request.Context(), identifier, req.Password)
	if errors.Is(err, credentials.ErrInvalidCredentials) {
		logger.Info("sign-in rejected", map[string]any{
			"attempt_id": attempt.ID,
			"ip":         c.ClientIP(),
		})
		apierror.Abort(c, http.StatusUnprocessableEntity, apierror.CodePasswordIncorrect, messageInvalidCredentials)
		return
	}
	if err != nil {
		logger.Error("sign-in authentication failed", map[string]any{
			"attempt_id": attempt.ID,
			"error":      err.Error(),
		})
		apierror.Abort(c, http.StatusInternalServerError, apierror.CodeInternal, signin.MessageFallback)
		return
	}

	if account.SecondFactorEnabled {
		attempt.Status = signin.StatusNeedsSecondFactor
		c.JSON(http.StatusOK, attempt)
		return
	}

	sessionID, err := h.createPendingSession(c.Request.Context(), account.UserID)
	if err != nil {
		logger.Error("failed to create session", map[string]any{
			"attempt_id": attempt.ID,
			"error":      err.Error(),
		})
		apierror.Abort(c, http.StatusInternalServerError, apierror.CodeInternal, signin.MessageFallback)
		return
	}

	attempt.Status = signin.StatusComplete
	attempt.CreatedSessionID = sessionID

	logger.Info("sign-in attempt complete", map[string]any{
		"attempt_id": attempt.ID,
		"user_id":    account.UserID,
		"ip":         c.ClientIP(),
	})

	c.JSON(http.StatusOK, attempt)
}
