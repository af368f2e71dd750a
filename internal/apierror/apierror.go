// Package apierror writes the JSON error envelope shared by every route:
// {"errors":[{"code","message","long_message"}]}.
package apierror

import (
	"encoding/json"
	"net/http"

	"reps-auth/internal/signin"

	"github.com/gin-gonic/gin"
)

const (
	CodeInvalidRequest    = "invalid_request"
	CodePasswordIncorrect = "form_password_incorrect"
	CodeSessionNotFound   = "session_not_found"
	CodeUnknownProvider   = "unknown_provider"
	CodeInvalidRedirect   = "invalid_redirect_url"
	CodeInvalidState      = "invalid_state"
	CodeUnauthorized      = "unauthorized"
	CodeTooManyRequests   = "too_many_requests"
	CodeInternal          = "internal_error"
)

// Response is the envelope body. Entries reuse the client's ErrorEntry so
// both ends agree on the wire shape.
type Response struct {
	Errors []signin.ErrorEntry `json:"errors"`
}

func New(code, message string) Response {
	return Response{Errors: []signin.ErrorEntry{{Code: code, Message: message}}}
}

// Abort writes the envelope and stops the gin chain.
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, New(code, message))
}

// Write is Abort for plain net/http handlers.
func Write(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(New(code, message))
}
