package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	logpkg "github.com/benvon/morning-affirmations/internal/logger"
	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/benvon/morning-affirmations/internal/services/curation"
	"github.com/benvon/morning-affirmations/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// LockHandler handles locking a session's selection
type LockHandler struct {
	service *curation.Service
	logger  *zap.Logger
}

// NewLockHandler creates a new lock handler
func NewLockHandler(service *curation.Service, logger *zap.Logger) *LockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LockHandler{service: service, logger: logger}
}

// RegisterRoutes registers lock routes on the /api/v1 router
func (h *LockHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/lock", h.GetLock).Methods("GET")
	r.HandleFunc("/lock", h.Lock).Methods("POST")
	r.HandleFunc("/lock", h.Unlock).Methods("DELETE")
}

// LockRequest is the optional body of POST /lock
type LockRequest struct {
	Theme         string            `json:"theme,omitempty" validate:"omitempty,theme"`
	AffirmationID string            `json:"affirmation_id,omitempty" validate:"omitempty,max=200"`
	VideoIDs      map[string]string `json:"video_ids,omitempty" validate:"omitempty,dive,keys,video_category,endkeys,required,max=200"`
}

// GetLock returns the session's locked selection
func (h *LockHandler) GetLock(w http.ResponseWriter, r *http.Request) {
	lock, err := h.service.CurrentLock(r.Context(), sessionID(r))
	if err != nil {
		if !errors.Is(err, curation.ErrNoLock) && !errors.Is(err, curation.ErrLockedContentUnavailable) {
			h.logger.Error("failed_to_get_lock", zap.String("error", logpkg.SanitizeError(err)))
		}
		respondServiceError(w, err, "Failed to get locked selection")
		return
	}
	respondJSON(w, http.StatusOK, lock)
}

// Lock freezes the session's selection. Without a body the current content is selected fresh.
func (h *LockHandler) Lock(w http.ResponseWriter, r *http.Request) {
	var req LockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid lock request")
		return
	}

	lockReq := curation.LockRequest{
		Theme:         models.Theme(req.Theme),
		AffirmationID: req.AffirmationID,
	}
	if len(req.VideoIDs) > 0 {
		lockReq.VideoIDs = make(map[models.VideoCategory]string, len(req.VideoIDs))
		for category, id := range req.VideoIDs {
			lockReq.VideoIDs[models.VideoCategory(category)] = id
		}
	}

	lock, err := h.service.Lock(r.Context(), sessionID(r), lockReq)
	if err != nil {
		if !errors.Is(err, curation.ErrLockedContentUnavailable) {
			h.logger.Error("failed_to_lock_content", zap.String("error", logpkg.SanitizeError(err)))
		}
		respondServiceError(w, err, "Failed to lock selection")
		return
	}
	respondJSON(w, http.StatusCreated, lock)
}

// Unlock removes the session's lock
func (h *LockHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Unlock(r.Context(), sessionID(r)); err != nil {
		if !errors.Is(err, curation.ErrNoLock) {
			h.logger.Error("failed_to_unlock_content", zap.String("error", logpkg.SanitizeError(err)))
		}
		respondServiceError(w, err, "Failed to unlock selection")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
