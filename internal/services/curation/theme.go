package curation

import (
	"context"
	"errors"
	"fmt"

	"github.com/benvon/morning-affirmations/internal/cache"
	"github.com/benvon/morning-affirmations/internal/catalog"
	"github.com/benvon/morning-affirmations/internal/logger"
	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ParseTheme validates a client supplied theme. Empty means no preference.
func ParseTheme(raw string) (models.Theme, error) {
	if raw == "" {
		return "", nil
	}
	theme := models.Theme(raw)
	if !theme.Valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidTheme, logger.SanitizeQueryValue(raw))
	}
	return theme, nil
}

// ResolveTheme picks the theme for a request: the requested theme, then the session's
// stored preference (a random selectable theme when the session asked for random), then
// the app default.
func (s *Service) ResolveTheme(ctx context.Context, sessionID uuid.UUID, requested models.Theme) models.Theme {
	if requested.Valid() {
		return requested
	}
	snap := s.content.Snapshot()

	if prefs := s.storedPreferences(ctx, sessionID); prefs != nil {
		if prefs.IsRandom {
			return s.randomTheme(snap)
		}
		if prefs.Theme.Valid() {
			return prefs.Theme
		}
	}
	return snap.DefaultTheme()
}

func (s *Service) randomTheme(snap *catalog.Snapshot) models.Theme {
	themes := snap.SelectableThemes()
	return themes[s.intN(len(themes))]
}

// storedPreferences returns nil when the session has none or they cannot be read
func (s *Service) storedPreferences(ctx context.Context, sessionID uuid.UUID) *models.Preferences {
	if s.prefs == nil || sessionID == uuid.Nil {
		return nil
	}
	prefs, err := s.prefs.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, cache.ErrNoPreferences) {
			s.logger.Warn("failed_to_load_preferences",
				zap.String("session_id", sessionID.String()),
				zap.Error(err),
			)
		}
		return nil
	}
	return prefs
}
