package middleware

import (
	"net/http"

	logpkg "github.com/benvon/morning-affirmations/internal/logger"
	"github.com/benvon/morning-affirmations/internal/request"
	"go.uber.org/zap"
)

// auditEvents maps the statuses worth a warning to their log event
var auditEvents = map[int]string{
	http.StatusTooManyRequests:       "rate_limit_violation",
	http.StatusRequestEntityTooLarge: "oversized_request",
	http.StatusUnsupportedMediaType:  "unsupported_media_type",
	http.StatusServiceUnavailable:    "content_unavailable",
}

// Audit logs abuse-related and unavailable responses for monitoring
func Audit(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			event, ok := auditEvents[rec.status]
			if !ok {
				return
			}
			logger.Warn(event,
				zap.Int("status_code", rec.status),
				zap.String("method", r.Method),
				zap.String("path", logpkg.SanitizePath(r.URL.Path)),
				zap.String("ip", logpkg.SanitizeQueryValue(request.ClientIP(r))),
			)
		})
	}
}
