package frontend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"reps-auth/internal/logger"
	"reps-auth/internal/signin"

	"github.com/gin-gonic/gin"
)

const (
	callbackPath       = "/callback"
	codeExternalFailed = "oauth_failed"
	listenerShutdown   = 2 * time.Second
)

var errUnexpectedCallback = errors.New("frontend: unexpected oauth callback")

const callbackPage = `<!doctype html>
<html><head><meta charset="utf-8"><title>Sign-in</title></head>
<body><p>You can close this window and return to the terminal.</p></body></html>`

type callbackOutcome struct {
	result *signin.ExternalFlowResult
	err    error
}

// BeginExternalFlow opens the browser at the service's federated login and
// waits on a loopback listener for the outcome. Only the first callback is
// used. If ctx ends first its cause is returned.
func (c *Client) BeginExternalFlow(ctx context.Context, strategy signin.Strategy) (*signin.ExternalFlowResult, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort(c.callbackHost, strconv.Itoa(c.callbackPort)))
	if err != nil {
		return nil, fmt.Errorf("frontend: callback listener: %w", err)
	}

	outcomes := make(chan callbackOutcome, 1)
	srv := &http.Server{
		Handler:           callbackRouter(outcomes),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("callback listener stopped", map[string]any{
				"error": err.Error(),
			})
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), listenerShutdown)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	redirectURL := "http://" + ln.Addr().String() + callbackPath
	loginURL := c.baseURL + "/oauth/login/" + url.PathEscape(strategy.ProviderName()) +
		"?" + url.Values{"redirect_url": {redirectURL}}.Encode()

	logger.Info("opening browser for oauth", map[string]any{
		"strategy": string(strategy),
		"callback": redirectURL,
	})

	if err := c.openBrowser(loginURL); err != nil {
		return nil, err
	}

	select {
	case out := <-outcomes:
		return out.result, out.err
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	}
}

func callbackRouter(outcomes chan<- callbackOutcome) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET(callbackPath, func(c *gin.Context) {
		out := parseCallback(c.Request.URL.Query())

		select {
		case outcomes <- out:
		default:
			// a later callback for a flow already decided
		}

		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(callbackPage))
	})

	return r
}

func parseCallback(q url.Values) callbackOutcome {
	switch q.Get("status") {
	case "complete":
		if sid := q.Get("created_session_id"); sid != "" {
			return callbackOutcome{result: &signin.ExternalFlowResult{SessionID: sid}}
		}
		return callbackOutcome{err: fmt.Errorf("%w: missing session id", errUnexpectedCallback)}

	case "cancelled":
		return callbackOutcome{result: &signin.ExternalFlowResult{Cancelled: true}}

	case "failed":
		return callbackOutcome{err: &signin.ProviderError{
			Errors: []signin.ErrorEntry{{Code: codeExternalFailed, Message: q.Get("error")}},
		}}

	default:
		return callbackOutcome{err: fmt.Errorf("%w: status %q", errUnexpectedCallback, q.Get("status"))}
	}
}
