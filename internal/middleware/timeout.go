package middleware

import (
	"encoding/json"
	"net/http"
	"time"
)

// DefaultRequestTimeout bounds a request including its database and Redis calls
const DefaultRequestTimeout = 30 * time.Second

// Timeout cancels the request context at the deadline and answers 503 with the error
// envelope. Handlers that already wrote a response keep it.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	body, _ := json.Marshal(newErrorResponse(nil, "Service Unavailable", "Request timed out after "+timeout.String()))

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, string(body))
	}
}
