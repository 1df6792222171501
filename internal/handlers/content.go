package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	logpkg "github.com/benvon/morning-affirmations/internal/logger"
	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/benvon/morning-affirmations/internal/selector"
	"github.com/benvon/morning-affirmations/internal/services/curation"
	"github.com/benvon/morning-affirmations/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ContentHandler serves content selections
type ContentHandler struct {
	service *curation.Service
	logger  *zap.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(service *curation.Service, logger *zap.Logger) *ContentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentHandler{service: service, logger: logger}
}

// RegisterRoutes registers content routes on the /api/v1 router
func (h *ContentHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/content", h.GetContent).Methods("GET")
	r.HandleFunc("/content/available", h.GetAvailable).Methods("GET")
	r.HandleFunc("/affirmation", h.GetAffirmation).Methods("GET")
	r.HandleFunc("/videos", h.GetVideos).Methods("GET")
	r.HandleFunc("/welcome", h.GetWelcome).Methods("GET")
	r.HandleFunc("/themes", h.ListThemes).Methods("GET")
	r.HandleFunc("/usage", h.GetUsage).Methods("GET")
	r.HandleFunc("/usage", h.ClearUsage).Methods("DELETE")
}

// AffirmationResponse is the body of GET /affirmation
type AffirmationResponse struct {
	Theme       models.Theme       `json:"theme"`
	Affirmation models.Affirmation `json:"affirmation"`
}

// VideosResponse is the body of GET /videos
type VideosResponse struct {
	Theme  models.Theme          `json:"theme"`
	Videos models.VideoSelection `json:"videos"`
}

// WelcomeResponse is the body of GET /welcome
type WelcomeResponse struct {
	Theme models.Theme `json:"theme"`
	selector.WelcomeSelection
}

// AvailableResponse is the body of GET /content/available
type AvailableResponse struct {
	Theme models.Theme `json:"theme"`
	selector.AvailableContent
}

// ThemesResponse is the body of GET /themes
type ThemesResponse struct {
	Themes       []models.ThemeConfig `json:"themes"`
	DefaultTheme models.Theme         `json:"default_theme"`
}

// GetContent returns the session's affirmation, videos and welcome message
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	theme, err := themeParam(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	content, err := h.service.Content(r.Context(), sessionID(r), theme, h.service.Now())
	if err != nil {
		h.logError("failed_to_select_content", r, err)
		respondServiceError(w, err, "Failed to select content")
		return
	}

	respondJSON(w, http.StatusOK, content)
}

// GetAffirmation returns a fresh affirmation
func (h *ContentHandler) GetAffirmation(w http.ResponseWriter, r *http.Request) {
	theme, err := themeParam(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	affirmation, resolved, err := h.service.Affirmation(r.Context(), sessionID(r), theme)
	if err != nil {
		h.logError("failed_to_select_affirmation", r, err)
		respondServiceError(w, err, "Failed to select affirmation")
		return
	}

	respondJSON(w, http.StatusOK, AffirmationResponse{Theme: resolved, Affirmation: affirmation})
}

// GetVideos returns one fresh video per category
func (h *ContentHandler) GetVideos(w http.ResponseWriter, r *http.Request) {
	theme, err := themeParam(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	videos, resolved := h.service.Videos(r.Context(), sessionID(r), theme)
	respondJSON(w, http.StatusOK, VideosResponse{Theme: resolved, Videos: videos})
}

// GetWelcome returns the welcome message for now, or for the optional at parameter
func (h *ContentHandler) GetWelcome(w http.ResponseWriter, r *http.Request) {
	theme, err := themeParam(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	at, err := parseAt(r.URL.Query().Get("at"), h.service.Now())
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	welcome, resolved := h.service.Welcome(r.Context(), sessionID(r), theme, at)
	respondJSON(w, http.StatusOK, WelcomeResponse{Theme: resolved, WelcomeSelection: welcome})
}

// GetAvailable counts the content that could be shown
func (h *ContentHandler) GetAvailable(w http.ResponseWriter, r *http.Request) {
	theme, err := themeParam(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	available, resolved := h.service.Available(r.Context(), sessionID(r), theme)
	respondJSON(w, http.StatusOK, AvailableResponse{Theme: resolved, AvailableContent: available})
}

// ListThemes returns the active theme configurations
func (h *ContentHandler) ListThemes(w http.ResponseWriter, r *http.Request) {
	snap := h.service.Snapshot()
	themes := snap.ActiveThemes()
	if themes == nil {
		themes = []models.ThemeConfig{}
	}
	respondJSON(w, http.StatusOK, ThemesResponse{Themes: themes, DefaultTheme: snap.DefaultTheme()})
}

// GetUsage reports the recency history per bucket
func (h *ContentHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Selector().UsageStats())
}

// ClearUsage forgets the recency history
func (h *ContentHandler) ClearUsage(w http.ResponseWriter, r *http.Request) {
	h.service.Selector().ClearUsageHistory()
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContentHandler) logError(event string, r *http.Request, err error) {
	if errors.Is(err, curation.ErrInvalidTheme) {
		return
	}
	h.logger.Error(event,
		zap.String("path", logpkg.SanitizePath(r.URL.Path)),
		zap.String("error", logpkg.SanitizeError(err)),
	)
}

// parseAt accepts "HH:MM" (today in now's zone) or an RFC3339 timestamp. Empty means now.
func parseAt(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return now, nil
	}
	if minutes, err := validation.ParseClockMinutes(raw); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), minutes/60, minutes%60, 0, 0, now.Location()), nil
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid at %q (want HH:MM or RFC3339)", logpkg.SanitizeQueryValue(raw))
	}
	return at, nil
}
