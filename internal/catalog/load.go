package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/benvon/morning-affirmations/internal/validation"
	"go.uber.org/zap"
)

type affirmationsDocument struct {
	Affirmations []models.Affirmation `json:"affirmations"`
}

type videosDocument struct {
	Videos []models.Video `json:"videos"`
}

type themesDocument struct {
	Themes []models.ThemeConfig `json:"themes"`
}

// welcomeDocument accepts either the list form {"sets": [...]} or the legacy per-theme
// map {"themes": {"peaceful": {"timeRanges": [...]}}} written by the first release of
// the app. Legacy files use camelCase keys; snake_case is accepted there too.
type welcomeDocument struct {
	Sets   []models.WelcomeMessageSet `json:"sets"`
	Themes map[models.Theme]legacyThemeMessages `json:"themes"`
}

type legacyThemeMessages struct {
	TimeRanges      []legacyTimeRange `json:"timeRanges"`
	TimeRangesSnake []legacyTimeRange `json:"time_ranges"`
}

type legacyTimeRange struct {
	ID             string   `json:"id"`
	StartTime      string   `json:"startTime"`
	EndTime        string   `json:"endTime"`
	StartTimeSnake string   `json:"start_time"`
	EndTimeSnake   string   `json:"end_time"`
	Messages       []string `json:"messages"`
}

func (m legacyThemeMessages) timeRanges() []models.TimeRange {
	raw := m.TimeRanges
	if raw == nil {
		raw = m.TimeRangesSnake
	}
	out := make([]models.TimeRange, 0, len(raw))
	for _, r := range raw {
		out = append(out, models.TimeRange{
			ID:        r.ID,
			StartTime: firstNonEmpty(r.StartTime, r.StartTimeSnake),
			EndTime:   firstNonEmpty(r.EndTime, r.EndTimeSnake),
			Messages:  r.Messages,
		})
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// fileLoader reads one content file into a snapshot
type fileLoader struct {
	name     string
	load     func(path string, snap *Snapshot) error
	fallback func(snap *Snapshot)
}

func loaders() []fileLoader {
	return []fileLoader{
		{name: AffirmationsFile, load: loadAffirmations, fallback: func(s *Snapshot) { s.Affirmations = nil }},
		{name: VideosFile, load: loadVideos, fallback: func(s *Snapshot) { s.Videos = nil }},
		{name: WelcomeMessagesFile, load: loadWelcomeMessages, fallback: func(s *Snapshot) { s.WelcomeSets = DefaultWelcomeMessageSets() }},
		{name: ThemesFile, load: loadThemes, fallback: func(s *Snapshot) { s.Themes = nil }},
		{name: AppConfigFile, load: loadAppConfig, fallback: func(s *Snapshot) { s.AppConfig = models.DefaultAppConfig() }},
	}
}

// Load reads and validates every content file in dir. The first failing file aborts the
// load with a *ContentDataError naming it.
func Load(dir string) (*Snapshot, error) {
	snap := &Snapshot{Dir: dir}
	for _, l := range loaders() {
		if err := l.load(filepath.Join(dir, l.name), snap); err != nil {
			return nil, err
		}
	}
	snap.index(time.Now())
	return snap, nil
}

// LoadWithFallback reads every content file in dir, replacing each missing or invalid
// file with its default and logging a warning. It never fails.
func LoadWithFallback(dir string, logger *zap.Logger) *Snapshot {
	if logger == nil {
		logger = zap.NewNop()
	}
	snap := &Snapshot{Dir: dir}
	for _, l := range loaders() {
		if err := l.load(filepath.Join(dir, l.name), snap); err != nil {
			logger.Warn("content_file_fallback",
				zap.String("file", l.name),
				zap.Error(err),
			)
			l.fallback(snap)
			snap.Fallbacks = append(snap.Fallbacks, l.name)
		}
	}
	snap.index(time.Now())
	return snap
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ContentDataError{Path: path, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &ContentDataError{Path: path, Err: fmt.Errorf("parse: %w", err)}
	}
	return nil
}

func loadAffirmations(path string, snap *Snapshot) error {
	var doc affirmationsDocument
	if err := readJSON(path, &doc); err != nil {
		return err
	}
	if err := validateRecords(doc.Affirmations, "affirmation"); err != nil {
		return &ContentDataError{Path: path, Err: err}
	}
	snap.Affirmations = doc.Affirmations
	return nil
}

func loadVideos(path string, snap *Snapshot) error {
	var doc videosDocument
	if err := readJSON(path, &doc); err != nil {
		return err
	}
	if err := validateRecords(doc.Videos, "video"); err != nil {
		return &ContentDataError{Path: path, Err: err}
	}
	snap.Videos = doc.Videos
	return nil
}

func loadWelcomeMessages(path string, snap *Snapshot) error {
	var doc welcomeDocument
	if err := readJSON(path, &doc); err != nil {
		return err
	}

	sets := doc.Sets
	if sets == nil && doc.Themes != nil {
		sets = setsFromThemeMap(doc)
	}
	if sets == nil {
		return &ContentDataError{Path: path, Err: errors.New(`welcome messages must have a "sets" or "themes" property`)}
	}

	for i := range sets {
		if err := validation.Validate.Struct(sets[i]); err != nil {
			return &ContentDataError{Path: path, Err: fmt.Errorf("welcome message set at index %d: %w", i, err)}
		}
	}
	snap.WelcomeSets = sets
	return nil
}

// setsFromThemeMap converts the per-theme map into active single-theme sets ordered by
// theme name so repeated loads produce the same list.
func setsFromThemeMap(doc welcomeDocument) []models.WelcomeMessageSet {
	themes := make([]models.Theme, 0, len(doc.Themes))
	for theme := range doc.Themes {
		themes = append(themes, theme)
	}
	sort.Slice(themes, func(i, j int) bool { return themes[i] < themes[j] })

	sets := make([]models.WelcomeMessageSet, 0, len(themes))
	for _, theme := range themes {
		sets = append(sets, models.WelcomeMessageSet{
			Themes:     []models.Theme{theme},
			IsActive:   true,
			TimeRanges: doc.Themes[theme].timeRanges(),
		})
	}
	return sets
}

func loadThemes(path string, snap *Snapshot) error {
	var doc themesDocument
	if err := readJSON(path, &doc); err != nil {
		return err
	}
	seen := make(map[models.Theme]bool, len(doc.Themes))
	for i := range doc.Themes {
		if err := validation.Validate.Struct(doc.Themes[i]); err != nil {
			return &ContentDataError{Path: path, Err: fmt.Errorf("theme at index %d: %w", i, err)}
		}
		if seen[doc.Themes[i].ID] {
			return &ContentDataError{Path: path, Err: fmt.Errorf("theme at index %d: duplicate id %q", i, doc.Themes[i].ID)}
		}
		seen[doc.Themes[i].ID] = true
	}
	snap.Themes = doc.Themes
	return nil
}

func loadAppConfig(path string, snap *Snapshot) error {
	cfg := models.DefaultAppConfig()
	if err := readJSON(path, &cfg); err != nil {
		return err
	}
	if err := validation.Validate.Struct(cfg); err != nil {
		return &ContentDataError{Path: path, Err: fmt.Errorf("app config: %w", err)}
	}
	snap.AppConfig = cfg
	return nil
}

type record interface {
	GetID() string
}

// validateRecords checks struct tags and id uniqueness
func validateRecords[T record](items []T, kind string) error {
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if err := validation.Validate.Struct(item); err != nil {
			return fmt.Errorf("%s at index %d: %w", kind, i, err)
		}
		if seen[item.GetID()] {
			return fmt.Errorf("%s at index %d: duplicate id %q", kind, i, item.GetID())
		}
		seen[item.GetID()] = true
	}
	return nil
}

// DefaultWelcomeMessageSets is used when welcome-messages.json cannot be loaded
func DefaultWelcomeMessageSets() []models.WelcomeMessageSet {
	greetings := map[models.Theme]string{
		models.ThemePeaceful:    "Welcome to a peaceful day",
		models.ThemeEnergetic:   "Let's make today amazing!",
		models.ThemeRestorative: "Take time to nurture yourself today",
	}
	sets := make([]models.WelcomeMessageSet, 0, len(greetings))
	for _, theme := range models.AllThemes() {
		sets = append(sets, models.WelcomeMessageSet{
			Themes:   []models.Theme{theme},
			IsActive: true,
			TimeRanges: []models.TimeRange{{
				ID:        "morning",
				StartTime: "06:00",
				EndTime:   "11:59",
				Messages:  []string{models.FallbackWelcomeMessage, greetings[theme]},
			}},
		})
	}
	return sets
}
