package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

var (
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// UpstreamError is returned when an upstream call fails. Message is the
// user-facing text; Err carries the cause.
type UpstreamError struct {
	Upstream   string
	Message    string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Upstream, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Upstream, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// HTTPClientConfig bundles the HTTP client shared by every upstream.
type HTTPClientConfig struct {
	Client *http.Client
}

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         name,
		MaxRequests:  5,
		Interval:     1 * time.Minute,
		Timeout:      2 * time.Minute,
		IsSuccessful: upstreamHealthy,
	})
}

// upstreamHealthy reports whether a call result says the upstream itself is up.
// A 4xx is an answer about the request, so it does not count towards tripping.
func upstreamHealthy(err error) bool {
	if err == nil {
		return true
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.status >= 400 && se.status < 500
	}
	return false
}

// doRequest executes a single GET through the circuit breaker. There are no retries:
// a failed call is reported once and the caller decides what to show.
// Non-2xx responses are closed and returned as errors wrapping errUnexpected.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	url string,
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, &statusError{
				status: resp.StatusCode,
				err:    fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode),
			}
		}

		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}

// statusError keeps the status code of a failed request next to its cause.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

// upstreamError wraps err into an *UpstreamError with the given user-facing message.
func upstreamError(upstream, message string, err error) *UpstreamError {
	ue := &UpstreamError{Upstream: upstream, Message: message, Err: err}
	var se *statusError
	if errors.As(err, &se) {
		ue.StatusCode = se.status
	}
	return ue
}
