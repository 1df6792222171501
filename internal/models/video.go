package models

import "fmt"

// VideoCategory groups videos on the page. One video is shown per category.
type VideoCategory string

const (
	VideoCategoryAffirmations  VideoCategory = "affirmations"
	VideoCategoryYoga          VideoCategory = "yoga"
	VideoCategoryBible         VideoCategory = "bible"
	VideoCategoryArtsyCreative VideoCategory = "artsy-creative"
	VideoCategoryMeditation    VideoCategory = "meditation"
	VideoCategoryMotivation    VideoCategory = "motivation"
	VideoCategoryWellness      VideoCategory = "wellness"
)

// DefaultVideoCategories is the category order used when none is configured
func DefaultVideoCategories() []VideoCategory {
	return []VideoCategory{
		VideoCategoryAffirmations,
		VideoCategoryYoga,
		VideoCategoryBible,
		VideoCategoryArtsyCreative,
	}
}

// Valid reports whether c is a known category
func (c VideoCategory) Valid() bool {
	switch c {
	case VideoCategoryAffirmations, VideoCategoryYoga, VideoCategoryBible, VideoCategoryArtsyCreative,
		VideoCategoryMeditation, VideoCategoryMotivation, VideoCategoryWellness:
		return true
	default:
		return false
	}
}

// ParseVideoCategories converts raw names into categories, rejecting unknown or duplicate names
func ParseVideoCategories(raw []string) ([]VideoCategory, error) {
	out := make([]VideoCategory, 0, len(raw))
	seen := make(map[VideoCategory]bool, len(raw))
	for _, name := range raw {
		c := VideoCategory(name)
		if !c.Valid() {
			return nil, fmt.Errorf("unknown video category: %q", name)
		}
		if seen[c] {
			return nil, fmt.Errorf("duplicate video category: %q", name)
		}
		seen[c] = true
		out = append(out, c)
	}
	return out, nil
}

// Video is a curated video shown in the video grid
type Video struct {
	ID             string        `json:"id" validate:"required"`
	Title          string        `json:"title" validate:"required"`
	Description    string        `json:"description,omitempty"`
	URL            string        `json:"url" validate:"required,url"`
	Creator        string        `json:"creator"`
	CreatorChannel string        `json:"creator_channel"`
	Category       VideoCategory `json:"category" validate:"required,video_category"`
	Themes         []Theme       `json:"themes" validate:"dive,theme"`
	Tags           []string      `json:"tags,omitempty"`
	Thumbnail      ImageRef      `json:"thumbnail"`
	Active         bool          `json:"active"`
}

// GetID returns the video id
func (v Video) GetID() string { return v.ID }

// HasTheme reports whether the video is tagged with t
func (v Video) HasTheme(t Theme) bool { return ContainsTheme(v.Themes, t) }
