package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryVideo pairs a category with the video chosen for it
type CategoryVideo struct {
	Category VideoCategory `json:"category"`
	Video    Video         `json:"video"`
}

// VideoSelection is an ordered category to video association. Order follows the
// configured category list and categories are unique.
type VideoSelection []CategoryVideo

// Get returns the video selected for category
func (s VideoSelection) Get(category VideoCategory) (Video, bool) {
	for _, entry := range s {
		if entry.Category == category {
			return entry.Video, true
		}
	}
	return Video{}, false
}

// Categories returns the populated categories in order
func (s VideoSelection) Categories() []VideoCategory {
	out := make([]VideoCategory, 0, len(s))
	for _, entry := range s {
		out = append(out, entry.Category)
	}
	return out
}

// LockedSelection freezes a session's affirmation and videos until it is unlocked
type LockedSelection struct {
	ID          uuid.UUID      `json:"id"`
	SessionID   uuid.UUID      `json:"session_id"`
	Theme       Theme          `json:"theme"`
	Affirmation Affirmation    `json:"affirmation"`
	Videos      VideoSelection `json:"videos"`
	LockedAt    time.Time      `json:"locked_at"`
}

// Preferences is a session's theme state
type Preferences struct {
	SessionID    uuid.UUID `json:"session_id"`
	Theme        Theme     `json:"theme"`
	IsPersistent bool      `json:"is_persistent"`
	IsRandom     bool      `json:"is_random"`
	IsLocked     bool      `json:"is_locked"`
	UpdatedAt    time.Time `json:"updated_at"`
}
