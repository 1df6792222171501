package request

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionHeader carries the anonymous session id in both directions
const SessionHeader = "X-Session-ID"

// ClientIP extracts the client IP from the request, respecting X-Forwarded-For and X-Real-IP.
// The port is stripped from RemoteAddr so rate limiting keys on the host only.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// WithSession returns a context carrying the session id.
func WithSession(ctx context.Context, sessionID uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionContextKey, sessionID)
}

// SessionFromContext returns the session id from the request context.
func SessionFromContext(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(sessionContextKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// ParseSessionID parses a client supplied session id. Only canonical UUIDs are accepted.
func ParseSessionID(raw string) (uuid.UUID, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) != 36 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
