package curation

import (
	"context"
	"errors"
	"fmt"

	"github.com/benvon/morning-affirmations/internal/cache"
	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PreferencesUpdate changes the fields that are set
type PreferencesUpdate struct {
	Theme        *models.Theme `json:"theme,omitempty"`
	IsPersistent *bool         `json:"is_persistent,omitempty"`
	IsRandom     *bool         `json:"is_random,omitempty"`
}

// Preferences returns the session's stored preferences, or the defaults when none are stored
func (s *Service) Preferences(ctx context.Context, sessionID uuid.UUID) (*models.Preferences, error) {
	if s.prefs != nil {
		prefs, err := s.prefs.Get(ctx, sessionID)
		if err == nil {
			return prefs, nil
		}
		if !errors.Is(err, cache.ErrNoPreferences) {
			return nil, fmt.Errorf("failed to load preferences: %w", err)
		}
	}
	return &models.Preferences{
		SessionID: sessionID,
		Theme:     s.content.Snapshot().DefaultTheme(),
	}, nil
}

// UpdatePreferences applies update to the session's preferences. Changes to features the
// app config turned off are rejected with ErrFeatureDisabled.
func (s *Service) UpdatePreferences(ctx context.Context, sessionID uuid.UUID, update PreferencesUpdate) (*models.Preferences, error) {
	if s.prefs == nil {
		return nil, errors.New("preference store not configured")
	}
	features := s.content.Snapshot().AppConfig.Features

	prefs, err := s.Preferences(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if update.Theme != nil {
		if !update.Theme.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTheme, *update.Theme)
		}
		if !features.ThemeSwitching && *update.Theme != prefs.Theme {
			return nil, fmt.Errorf("%w: theme switching", ErrFeatureDisabled)
		}
		prefs.Theme = *update.Theme
	}
	if update.IsPersistent != nil {
		if *update.IsPersistent && !features.PersistentThemes {
			return nil, fmt.Errorf("%w: persistent themes", ErrFeatureDisabled)
		}
		prefs.IsPersistent = *update.IsPersistent
	}
	if update.IsRandom != nil {
		if *update.IsRandom && !features.Randomization {
			return nil, fmt.Errorf("%w: randomization", ErrFeatureDisabled)
		}
		prefs.IsRandom = *update.IsRandom
	}

	prefs.SessionID = sessionID
	if err := s.prefs.Save(ctx, prefs); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}
	return prefs, nil
}

// ResetPreferences forgets the session's stored preferences. A session that is still
// locked keeps reporting is_locked.
func (s *Service) ResetPreferences(ctx context.Context, sessionID uuid.UUID) (*models.Preferences, error) {
	if s.prefs == nil {
		return nil, errors.New("preference store not configured")
	}
	if err := s.prefs.Delete(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("failed to delete preferences: %w", err)
	}

	lock, err := s.lookupLock(ctx, sessionID)
	if err != nil {
		s.logger.Warn("failed_to_check_lock_after_reset",
			zap.String("session_id", sessionID.String()),
			zap.Error(err),
		)
	}
	if lock != nil {
		s.setLockedFlag(ctx, sessionID, true)
	}
	return s.Preferences(ctx, sessionID)
}

// setLockedFlag mirrors the lock state into the session's preferences. Failures only
// affect what the preferences report, so they are logged and ignored.
func (s *Service) setLockedFlag(ctx context.Context, sessionID uuid.UUID, locked bool) {
	if s.prefs == nil {
		return
	}
	prefs, err := s.Preferences(ctx, sessionID)
	if err != nil || prefs.IsLocked == locked {
		return
	}
	prefs.IsLocked = locked
	if err := s.prefs.Save(ctx, prefs); err != nil {
		s.logger.Warn("failed_to_update_lock_preference",
			zap.String("session_id", sessionID.String()),
			zap.Error(err),
		)
	}
}
