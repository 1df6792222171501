package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	logpkg "github.com/benvon/morning-affirmations/internal/logger"
	"github.com/benvon/morning-affirmations/internal/selector"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON envelope for errors raised by middleware
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp,omitempty"`
	Path      string `json:"path,omitempty"`
}

// ErrorHandler recovers panics from handlers. A selection from an empty pool answers 503,
// anything else 500.
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				status, errorType, message := classifyPanic(rec)
				logger.Error("panic_recovered",
					zap.Any("panic", rec),
					zap.Int("status_code", status),
					zap.String("method", r.Method),
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.Stack("stack"),
				)
				if status == http.StatusServiceUnavailable {
					w.Header().Set("Retry-After", "30")
				}
				respondErrorJSON(w, r, status, errorType, message, logger)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func classifyPanic(rec any) (int, string, string) {
	if err, ok := rec.(error); ok && errors.Is(err, selector.ErrNoContent) {
		return http.StatusServiceUnavailable, "Service Unavailable", "No content is available"
	}
	return http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred"
}

func newErrorResponse(r *http.Request, errorType, message string) ErrorResponse {
	resp := ErrorResponse{Error: errorType, Message: message}
	if r != nil {
		resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
		resp.Path = logpkg.SanitizePath(r.URL.Path)
	}
	return resp
}

func respondErrorJSON(w http.ResponseWriter, r *http.Request, status int, errorType, message string, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(newErrorResponse(r, errorType, message)); err != nil && logger != nil {
		logger.Error("failed_to_encode_error_response",
			zap.Error(err),
			zap.Int("status_code", status),
		)
	}
}
