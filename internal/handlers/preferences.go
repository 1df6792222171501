package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	logpkg "github.com/benvon/morning-affirmations/internal/logger"
	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/benvon/morning-affirmations/internal/services/curation"
	"github.com/benvon/morning-affirmations/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// PreferencesHandler handles a session's theme preferences
type PreferencesHandler struct {
	service *curation.Service
	logger  *zap.Logger
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(service *curation.Service, logger *zap.Logger) *PreferencesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferencesHandler{service: service, logger: logger}
}

// RegisterRoutes registers preference routes on the /api/v1 router
func (h *PreferencesHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/preferences", h.GetPreferences).Methods("GET")
	r.HandleFunc("/preferences", h.UpdatePreferences).Methods("PUT")
	r.HandleFunc("/preferences", h.ResetPreferences).Methods("DELETE")
}

// UpdatePreferencesRequest is the body of PUT /preferences. Omitted fields are left unchanged.
type UpdatePreferencesRequest struct {
	Theme        *string `json:"theme,omitempty" validate:"omitempty,theme"`
	IsPersistent *bool   `json:"is_persistent,omitempty"`
	IsRandom     *bool   `json:"is_random,omitempty"`
}

// GetPreferences returns the session's preferences
func (h *PreferencesHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.service.Preferences(r.Context(), sessionID(r))
	if err != nil {
		h.logger.Error("failed_to_get_preferences", zap.String("error", logpkg.SanitizeError(err)))
		respondServiceError(w, err, "Failed to get preferences")
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}

// UpdatePreferences changes the session's preferences
func (h *PreferencesHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid theme")
		return
	}

	update := curation.PreferencesUpdate{
		IsPersistent: req.IsPersistent,
		IsRandom:     req.IsRandom,
	}
	if req.Theme != nil {
		theme := models.Theme(*req.Theme)
		update.Theme = &theme
	}

	prefs, err := h.service.UpdatePreferences(r.Context(), sessionID(r), update)
	if err != nil {
		if !errors.Is(err, curation.ErrFeatureDisabled) && !errors.Is(err, curation.ErrInvalidTheme) {
			h.logger.Error("failed_to_update_preferences", zap.String("error", logpkg.SanitizeError(err)))
		}
		respondServiceError(w, err, "Failed to update preferences")
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}

// ResetPreferences forgets the session's preferences and returns the defaults
func (h *PreferencesHandler) ResetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.service.ResetPreferences(r.Context(), sessionID(r))
	if err != nil {
		h.logger.Error("failed_to_reset_preferences", zap.String("error", logpkg.SanitizeError(err)))
		respondServiceError(w, err, "Failed to reset preferences")
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}
