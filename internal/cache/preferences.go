package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	preferenceKeyPrefix = "prefs:"

	// SessionPreferencesTTL applies to preferences the visitor did not ask to keep
	SessionPreferencesTTL = 24 * time.Hour
	// DefaultPersistentPreferencesTTL applies to persistent preferences unless configured
	DefaultPersistentPreferencesTTL = 30 * 24 * time.Hour
)

// ErrNoPreferences is returned when a session has no stored preferences
var ErrNoPreferences = errors.New("no preferences stored")

// PreferenceStoreInterface defines session preference storage.
// This interface enables better testability by allowing mock implementations.
type PreferenceStoreInterface interface {
	Get(ctx context.Context, sessionID uuid.UUID) (*models.Preferences, error)
	Save(ctx context.Context, prefs *models.Preferences) error
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

var _ PreferenceStoreInterface = (*PreferenceStore)(nil)

// PreferenceStore keeps per-session theme preferences in Redis
type PreferenceStore struct {
	rdb           *redis.Client
	persistentTTL time.Duration
	now           func() time.Time
}

// NewPreferenceStore creates a preference store. persistentTTL <= 0 uses the default.
func NewPreferenceStore(client *Client, persistentTTL time.Duration) *PreferenceStore {
	if persistentTTL <= 0 {
		persistentTTL = DefaultPersistentPreferencesTTL
	}
	return &PreferenceStore{
		rdb:           client.Redis(),
		persistentTTL: persistentTTL,
		now:           time.Now,
	}
}

func preferenceKey(sessionID uuid.UUID) string {
	return preferenceKeyPrefix + sessionID.String()
}

func (s *PreferenceStore) ttlFor(prefs *models.Preferences) time.Duration {
	if prefs.IsPersistent {
		return s.persistentTTL
	}
	return SessionPreferencesTTL
}

// Get returns the stored preferences for sessionID
func (s *PreferenceStore) Get(ctx context.Context, sessionID uuid.UUID) (*models.Preferences, error) {
	raw, err := s.rdb.Get(ctx, preferenceKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoPreferences
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	return decodePreferences(raw, sessionID)
}

// Save stores prefs, stamping UpdatedAt. Saving again refreshes the expiry.
func (s *PreferenceStore) Save(ctx context.Context, prefs *models.Preferences) error {
	if prefs.SessionID == uuid.Nil {
		return fmt.Errorf("preferences require a session id")
	}
	prefs.UpdatedAt = s.now().UTC()
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := s.rdb.Set(ctx, preferenceKey(prefs.SessionID), raw, s.ttlFor(prefs)).Err(); err != nil {
		return fmt.Errorf("failed to store preferences: %w", err)
	}
	return nil
}

// Delete removes the stored preferences for sessionID
func (s *PreferenceStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.rdb.Del(ctx, preferenceKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete preferences: %w", err)
	}
	return nil
}

// decodePreferences parses a stored record. Records with an unknown theme are treated as
// absent so a removed theme cannot stick to a session.
func decodePreferences(raw []byte, sessionID uuid.UUID) (*models.Preferences, error) {
	var prefs models.Preferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	if prefs.Theme != "" && !prefs.Theme.Valid() {
		return nil, ErrNoPreferences
	}
	prefs.SessionID = sessionID
	return &prefs, nil
}
