package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/benvon/morning-affirmations/internal/request"
	"github.com/benvon/morning-affirmations/internal/selector"
	"github.com/benvon/morning-affirmations/internal/services/curation"
	"github.com/benvon/morning-affirmations/internal/validation"
	"github.com/google/uuid"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// sanitizeErrorMessage removes internal details from error messages
func sanitizeErrorMessage(message string) string {
	sanitized := validation.SanitizeText(message)
	if len(sanitized) > 200 {
		sanitized = sanitized[:200] + "..."
	}
	return sanitized
}

// respondJSONError sends an error JSON response with sanitized error messages
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   sanitizeErrorMessage(message),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondServiceError maps curation and selector errors onto HTTP statuses.
// Anything unrecognized is reported as a 500 with a generic message.
func respondServiceError(w http.ResponseWriter, err error, fallbackMessage string) {
	switch {
	case errors.Is(err, curation.ErrInvalidTheme):
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, curation.ErrFeatureDisabled):
		respondJSONError(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, curation.ErrNoLock):
		respondJSONError(w, http.StatusNotFound, "Not Found", "No locked selection for this session")
	case errors.Is(err, curation.ErrLockedContentUnavailable):
		respondJSONError(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, selector.ErrNoContent):
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "No content is available")
	default:
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", fallbackMessage)
	}
}

// sessionID returns the session set by the session middleware. Requests that bypass the
// middleware are served under the nil session, which has no lock and no preferences.
func sessionID(r *http.Request) uuid.UUID {
	id, _ := request.SessionFromContext(r)
	return id
}

// themeParam reads the optional theme query parameter
func themeParam(r *http.Request) (models.Theme, error) {
	return curation.ParseTheme(r.URL.Query().Get("theme"))
}
