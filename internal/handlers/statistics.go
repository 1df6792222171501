package handlers

import (
	"net/http"
	"strconv"

	"github.com/benvon/morning-affirmations/internal/database"
	logpkg "github.com/benvon/morning-affirmations/internal/logger"
	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	// DefaultStatisticsLimit is the default number of statistics returned
	DefaultStatisticsLimit = 20
	// MaxStatisticsLimit caps the limit parameter
	MaxStatisticsLimit = 200
)

// StatisticsHandler serves aggregate selection statistics
type StatisticsHandler struct {
	repo   database.SelectionStatisticsRepositoryInterface
	logger *zap.Logger
}

// NewStatisticsHandler creates a new statistics handler
func NewStatisticsHandler(repo database.SelectionStatisticsRepositoryInterface, logger *zap.Logger) *StatisticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsHandler{repo: repo, logger: logger}
}

// RegisterRoutes registers statistics routes on the /api/v1 router
func (h *StatisticsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/statistics", h.GetStatistics).Methods("GET")
}

// GetStatistics lists the most selected content, optionally filtered by kind
func (h *StatisticsHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := DefaultStatisticsLimit
	if l := query.Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "limit must be a positive integer")
			return
		}
		limit = min(parsed, MaxStatisticsLimit)
	}

	var kinds []models.ContentKind
	for _, raw := range query["kind"] {
		kind, err := models.ParseContentKind(raw)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "kind must be affirmation, video or welcome")
			return
		}
		kinds = append(kinds, kind)
	}

	stats, err := h.repo.Top(r.Context(), kinds, limit)
	if err != nil {
		h.logger.Error("failed_to_load_statistics", zap.String("error", logpkg.SanitizeError(err)))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load statistics")
		return
	}
	if stats == nil {
		stats = []*models.SelectionStatistic{}
	}
	respondJSON(w, http.StatusOK, stats)
}
