package middleware

import (
	"net/http"

	"github.com/benvon/morning-affirmations/internal/request"
	"github.com/google/uuid"
)

// Session resolves the anonymous session from the X-Session-ID header. A missing or malformed
// id is replaced with a fresh one. The id in effect is echoed back so clients can keep it.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := request.ParseSessionID(r.Header.Get(request.SessionHeader))
		if !ok {
			sessionID = uuid.New()
		}
		w.Header().Set(request.SessionHeader, sessionID.String())
		next.ServeHTTP(w, r.WithContext(request.WithSession(r.Context(), sessionID)))
	})
}
