package models

import (
	"fmt"
	"time"
)

// ContentKind identifies what kind of content a selection event refers to
type ContentKind string

const (
	ContentKindAffirmation ContentKind = "affirmation"
	ContentKindVideo       ContentKind = "video"
	ContentKindWelcome     ContentKind = "welcome"
)

// ParseContentKind validates a content kind name
func ParseContentKind(raw string) (ContentKind, error) {
	switch kind := ContentKind(raw); kind {
	case ContentKindAffirmation, ContentKindVideo, ContentKindWelcome:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown content kind %q", raw)
	}
}

// SelectionEvent records that a piece of content was shown
type SelectionEvent struct {
	Kind       ContentKind `json:"kind"`
	ContentID  string      `json:"content_id"`
	Bucket     string      `json:"bucket"`
	SelectedAt time.Time   `json:"selected_at"`
}

// SelectionStatistic is the aggregate of selection events for one content item
type SelectionStatistic struct {
	Kind           ContentKind `json:"kind"`
	ContentID      string      `json:"content_id"`
	SelectionCount int64       `json:"selection_count"`
	LastSelectedAt time.Time   `json:"last_selected_at"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
