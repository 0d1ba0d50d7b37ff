package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// APICallError represents a failed completion call, after any retries.
type APICallError struct {
	Provider   Provider
	Model      string
	StatusCode int // 0 when no HTTP response was received
	Attempts   int
	Retryable  bool
	Message    string
	Cause      error
}

func (e *APICallError) Error() string {
	status := ""
	if e.StatusCode != 0 {
		status = fmt.Sprintf(", status %d", e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("api error (%s%s, %d attempts): %s: %v", e.Provider, status, e.Attempts, e.Message, e.Cause)
	}
	return fmt.Sprintf("api error (%s%s, %d attempts): %s", e.Provider, status, e.Attempts, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// retryableStatus reports whether an HTTP status is worth another attempt.
func retryableStatus(code int) bool {
	return code == http.StatusRequestTimeout ||
		code == http.StatusConflict ||
		code == http.StatusTooManyRequests ||
		code >= http.StatusInternalServerError
}

// classify reports the HTTP status carried by err (0 if none) and whether err is transient.
// statusOf extracts the provider SDK's status code.
func classify(err error, statusOf func(error) int) (int, bool) {
	if errors.Is(err, context.Canceled) {
		return 0, false
	}
	if code := statusOf(err); code != 0 {
		return code, retryableStatus(code)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return 0, true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return 0, true
	}
	return 0, false
}
