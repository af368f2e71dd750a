package kratos

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"reps-auth/internal/signin"

	kratosclient "github.com/ory/kratos-client-go"
)

const (
	errIDAAL2Required = "session_aal2_required"

	codeStrategyUnavailable = "strategy_unavailable"
	codeSessionNotFound     = "session_not_found"
)

type uiText struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`
}

type errorBody struct {
	// generic errors
	Error *struct {
		ID      string `json:"id"`
		Code    int    `json:"code"`
		Message string `json:"message"`
		Reason  string `json:"reason"`
	} `json:"error"`

	// flow errors carry the whole flow, messages live in its UI
	UI *struct {
		Messages []uiText `json:"messages"`
		Nodes    []struct {
			Messages []uiText `json:"messages"`
		} `json:"nodes"`
	} `json:"ui"`
}

func parseErrorBody(raw []byte) (errorBody, bool) {
	var body errorBody
	if len(raw) == 0 || json.Unmarshal(raw, &body) != nil {
		return errorBody{}, false
	}
	return body, true
}

// translateError maps a Kratos API failure onto signin.ProviderError, with
// UI error messages first. Transport failures pass through unchanged.
func translateError(err error, httpResp *http.Response) error {
	var apiErr *kratosclient.GenericOpenAPIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("kratos: %w", err)
	}

	provErr := &signin.ProviderError{StatusCode: statusOf(httpResp)}

	body, ok := parseErrorBody(apiErr.Body())
	if !ok {
		return provErr
	}

	if body.UI != nil {
		for _, m := range body.UI.Messages {
			provErr.Errors = appendUIError(provErr.Errors, m)
		}
		for _, n := range body.UI.Nodes {
			for _, m := range n.Messages {
				provErr.Errors = appendUIError(provErr.Errors, m)
			}
		}
	}

	if body.Error != nil {
		msg := body.Error.Message
		if body.Error.Reason != "" {
			msg = body.Error.Reason
		}
		provErr.Errors = append(provErr.Errors, signin.ErrorEntry{
			Code:        body.Error.ID,
			Message:     msg,
			LongMessage: body.Error.Message,
		})
	}

	return provErr
}

func appendUIError(entries []signin.ErrorEntry, m uiText) []signin.ErrorEntry {
	if m.Type != "error" || m.Text == "" {
		return entries
	}
	return append(entries, signin.ErrorEntry{
		Code:    "kratos_" + strconv.FormatInt(m.ID, 10),
		Message: m.Text,
	})
}
