package apierror

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"reps-auth/internal/signin"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, http.StatusNotFound, CodeSessionNotFound, "Session not found.")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []signin.ErrorEntry{{Code: CodeSessionNotFound, Message: "Session not found."}}, body.Errors)
}

func TestAbortStopsChain(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reached := false
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		Abort(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body.")
	}, func(c *gin.Context) {
		reached = true
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, reached)
	assert.JSONEq(t, `{"errors":[{"code":"invalid_request","message":"Invalid request body."}]}`, rec.Body.String())
}
