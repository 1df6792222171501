package middleware

import (
	"net/http"

	"github.com/benvon/morning-affirmations/internal/request"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// CORS wraps rs/cors for the configured frontend origins. The session header is allowed
// inbound and exposed outbound so browser clients can persist it.
func CORS(origins []string, logger *zap.Logger) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	if logger != nil {
		logger.Info("cors_configured", zap.Strings("allowed_origins", origins))
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", request.SessionHeader},
		ExposedHeaders: []string{request.SessionHeader},
		MaxAge:         86400,
	})
	return c.Handler
}
