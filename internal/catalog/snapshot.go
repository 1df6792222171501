package catalog

import (
	"time"

	"github.com/benvon/morning-affirmations/internal/models"
)

// Snapshot is an immutable view of the content directory at one point in time. Callers
// must not modify the slices it returns.
type Snapshot struct {
	Dir          string
	Affirmations []models.Affirmation
	Videos       []models.Video
	WelcomeSets  []models.WelcomeMessageSet
	Themes       []models.ThemeConfig
	AppConfig    models.AppConfig
	LoadedAt     time.Time
	// Fallbacks names the files replaced by defaults
	Fallbacks []string

	activeAffirmations []models.Affirmation
	activeVideos       []models.Video
	activeThemes       []models.ThemeConfig
	affirmationsByID   map[string]models.Affirmation
	videosByID         map[string]models.Video
}

func (s *Snapshot) index(loadedAt time.Time) {
	s.LoadedAt = loadedAt
	s.activeAffirmations = make([]models.Affirmation, 0, len(s.Affirmations))
	s.affirmationsByID = make(map[string]models.Affirmation, len(s.Affirmations))
	for _, a := range s.Affirmations {
		if a.Active {
			s.activeAffirmations = append(s.activeAffirmations, a)
			s.affirmationsByID[a.ID] = a
		}
	}
	s.activeVideos = make([]models.Video, 0, len(s.Videos))
	s.videosByID = make(map[string]models.Video, len(s.Videos))
	for _, v := range s.Videos {
		if v.Active {
			s.activeVideos = append(s.activeVideos, v)
			s.videosByID[v.ID] = v
		}
	}
	s.activeThemes = make([]models.ThemeConfig, 0, len(s.Themes))
	for _, t := range s.Themes {
		if t.Active {
			s.activeThemes = append(s.activeThemes, t)
		}
	}
}

// ActiveAffirmations returns the affirmations eligible for selection
func (s *Snapshot) ActiveAffirmations() []models.Affirmation { return s.activeAffirmations }

// ActiveVideos returns the videos eligible for selection
func (s *Snapshot) ActiveVideos() []models.Video { return s.activeVideos }

// ActiveThemes returns the theme configs offered to visitors
func (s *Snapshot) ActiveThemes() []models.ThemeConfig { return s.activeThemes }

// Affirmation looks up an active affirmation by id
func (s *Snapshot) Affirmation(id string) (models.Affirmation, bool) {
	a, ok := s.affirmationsByID[id]
	return a, ok
}

// Video looks up an active video by id
func (s *Snapshot) Video(id string) (models.Video, bool) {
	v, ok := s.videosByID[id]
	return v, ok
}

// DefaultTheme returns the app config default, or peaceful when it is unset
func (s *Snapshot) DefaultTheme() models.Theme {
	if t := s.AppConfig.UI.DefaultTheme; t.Valid() {
		return t
	}
	return models.DefaultTheme
}

// SelectableThemes returns the active theme ids, or every supported theme when no theme
// config is active
func (s *Snapshot) SelectableThemes() []models.Theme {
	if len(s.activeThemes) == 0 {
		return models.AllThemes()
	}
	out := make([]models.Theme, 0, len(s.activeThemes))
	for _, t := range s.activeThemes {
		out = append(out, t.ID)
	}
	return out
}

// HasFallbacks reports whether any file was replaced by its default
func (s *Snapshot) HasFallbacks() bool { return len(s.Fallbacks) > 0 }
