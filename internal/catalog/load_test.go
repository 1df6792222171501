package catalog

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	snap, err := Load(writeContent(t, nil))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(snap.Affirmations) != 3 || len(snap.ActiveAffirmations()) != 2 {
		t.Errorf("affirmations = %d/%d active, want 3/2", len(snap.Affirmations), len(snap.ActiveAffirmations()))
	}
	if len(snap.ActiveVideos()) != 2 {
		t.Errorf("active videos = %d, want 2", len(snap.ActiveVideos()))
	}
	if v, ok := snap.Video("v1"); !ok || v.CreatorChannel != "@ana" {
		t.Errorf("Video(v1) = %+v, %v", v, ok)
	}
	if _, ok := snap.Video("v3"); ok {
		t.Error("inactive video v3 must not be found")
	}
	if _, ok := snap.Affirmation("a3"); ok {
		t.Error("inactive affirmation a3 must not be found")
	}
	if got := snap.DefaultTheme(); got != models.ThemeRestorative {
		t.Errorf("DefaultTheme() = %s, want restorative", got)
	}
	if diff := cmp.Diff([]models.Theme{models.ThemePeaceful}, snap.SelectableThemes()); diff != "" {
		t.Errorf("SelectableThemes() mismatch (-want +got):\n%s", diff)
	}
	if snap.AppConfig.App.Version != "2.0.0" {
		t.Errorf("AppConfig version = %q, want 2.0.0", snap.AppConfig.App.Version)
	}
	// Keys absent from app-config.json keep their defaults
	if !snap.AppConfig.Features.ThemeSwitching {
		t.Error("expected default feature flags to survive partial app config")
	}
	if snap.HasFallbacks() {
		t.Errorf("unexpected fallbacks %v", snap.Fallbacks)
	}
}

func TestLoad_LegacyWelcomeMap(t *testing.T) {
	t.Parallel()

	snap, err := Load(writeContent(t, map[string]string{WelcomeMessagesFile: testWelcomeLegacy}))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var themes []models.Theme
	for _, set := range snap.WelcomeSets {
		if !set.IsActive {
			t.Errorf("converted set for %v is not active", set.Themes)
		}
		themes = append(themes, set.Themes...)
	}
	want := []models.Theme{models.ThemePeaceful, models.ThemeRestorative}
	if diff := cmp.Diff(want, themes); diff != "" {
		t.Errorf("converted themes mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_LegacyWelcomeMapCamelCase(t *testing.T) {
	t.Parallel()

	legacy := `{"themes": {
  "energetic": {"timeRanges": [
    {"id": "late-night", "startTime": "22:00", "endTime": "03:59", "messages": ["Still up?"]},
    {"id": "morning", "startTime": "06:00", "endTime": "11:59", "messages": ["Let's go!", "Rise and shine!"]}
  ]}
}}`

	snap, err := Load(writeContent(t, map[string]string{WelcomeMessagesFile: legacy}))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(snap.WelcomeSets) != 1 {
		t.Fatalf("expected one converted set, got %d", len(snap.WelcomeSets))
	}

	want := []models.TimeRange{
		{ID: "late-night", StartTime: "22:00", EndTime: "03:59", Messages: []string{"Still up?"}},
		{ID: "morning", StartTime: "06:00", EndTime: "11:59", Messages: []string{"Let's go!", "Rise and shine!"}},
	}
	if diff := cmp.Diff(want, snap.WelcomeSets[0].TimeRanges); diff != "" {
		t.Errorf("time ranges mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		override map[string]string
		file     string
		contains string
	}{
		{"missing file", map[string]string{ThemesFile: ""}, ThemesFile, ""},
		{"malformed json", map[string]string{VideosFile: `{"videos": [`}, VideosFile, "parse"},
		{"affirmation without text", map[string]string{AffirmationsFile: `{"affirmations": [{"id": "x", "category": "peace"}]}`}, AffirmationsFile, "index 0"},
		{"duplicate affirmation id", map[string]string{AffirmationsFile: `{"affirmations": [
			{"id": "x", "text": "a", "category": "c"}, {"id": "x", "text": "b", "category": "c"}]}`}, AffirmationsFile, "duplicate id"},
		{"unknown video category", map[string]string{VideosFile: `{"videos": [{"id": "v", "title": "t", "url": "https://x.test", "category": "cooking"}]}`}, VideosFile, "index 0"},
		{"invalid video url", map[string]string{VideosFile: `{"videos": [{"id": "v", "title": "t", "url": "not a url", "category": "yoga"}]}`}, VideosFile, "index 0"},
		{"unknown video theme", map[string]string{VideosFile: `{"videos": [{"id": "v", "title": "t", "url": "https://x.test", "category": "yoga", "themes": ["gloomy"]}]}`}, VideosFile, "index 0"},
		{"bad time range", map[string]string{WelcomeMessagesFile: `{"sets": [{"theme": ["peaceful"], "is_active": true, "time_ranges": [{"id": "m", "start_time": "25:00", "end_time": "11:00"}]}]}`}, WelcomeMessagesFile, "index 0"},
		{"welcome without sets", map[string]string{WelcomeMessagesFile: `{}`}, WelcomeMessagesFile, "sets"},
		{"theme without colors", map[string]string{ThemesFile: `{"themes": [{"id": "peaceful", "name": "P"}]}`}, ThemesFile, "index 0"},
		{"bad default theme", map[string]string{AppConfigFile: `{"app": {"name": "x"}, "ui": {"default_theme": "gloomy"}}`}, AppConfigFile, "app config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(writeContent(t, tt.override))
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			var dataErr *ContentDataError
			if !errors.As(err, &dataErr) {
				t.Fatalf("Load() error type = %T, want *ContentDataError", err)
			}
			if filepath.Base(dataErr.Path) != tt.file {
				t.Errorf("ContentDataError.Path = %s, want %s", dataErr.Path, tt.file)
			}
			if tt.contains != "" && !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not mention %q", err, tt.contains)
			}
		})
	}
}

func TestLoad_MissingFileUnwrapsNotExist(t *testing.T) {
	t.Parallel()

	_, err := Load(writeContent(t, map[string]string{AffirmationsFile: ""}))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want fs.ErrNotExist in chain", err)
	}
}

func TestLoadWithFallback(t *testing.T) {
	t.Parallel()

	dir := writeContent(t, map[string]string{
		WelcomeMessagesFile: "",
		AppConfigFile:       `{"app": `,
		VideosFile:          `{"videos": [{"id": "v"}]}`,
	})
	snap := LoadWithFallback(dir, zap.NewNop())

	want := []string{VideosFile, WelcomeMessagesFile, AppConfigFile}
	if diff := cmp.Diff(want, snap.Fallbacks); diff != "" {
		t.Errorf("Fallbacks mismatch (-want +got):\n%s", diff)
	}
	if len(snap.ActiveAffirmations()) != 2 {
		t.Errorf("valid affirmations should still load, got %d", len(snap.ActiveAffirmations()))
	}
	if len(snap.Videos) != 0 {
		t.Errorf("invalid videos should fall back to empty, got %d", len(snap.Videos))
	}
	if diff := cmp.Diff(DefaultWelcomeMessageSets(), snap.WelcomeSets); diff != "" {
		t.Errorf("welcome fallback mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(models.DefaultAppConfig(), snap.AppConfig); diff != "" {
		t.Errorf("app config fallback mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithFallback_MissingDirectory(t *testing.T) {
	t.Parallel()

	snap := LoadWithFallback(filepath.Join(t.TempDir(), "nope"), nil)
	if len(snap.Fallbacks) != len(RequiredFiles()) {
		t.Errorf("Fallbacks = %v, want every file", snap.Fallbacks)
	}
	if snap.DefaultTheme() != models.ThemePeaceful {
		t.Errorf("DefaultTheme() = %s, want peaceful", snap.DefaultTheme())
	}
	if diff := cmp.Diff(models.AllThemes(), snap.SelectableThemes()); diff != "" {
		t.Errorf("SelectableThemes() mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckFiles(t *testing.T) {
	t.Parallel()

	missing, err := CheckFiles(writeContent(t, map[string]string{VideosFile: "", ThemesFile: ""}))
	if err != nil {
		t.Fatalf("CheckFiles() error = %v", err)
	}
	if diff := cmp.Diff([]string{VideosFile, ThemesFile}, missing); diff != "" {
		t.Errorf("CheckFiles() mismatch (-want +got):\n%s", diff)
	}

	if _, err := CheckFiles(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("CheckFiles() on missing dir: want error")
	}
}

func TestIsContentFile(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"/data/affirmations.json":     true,
		"youtube-videos.json":         true,
		"/data/affirmations.json.swp": false,
		"/data/notes.json":            false,
		"/data/app-config.yaml":       false,
	}
	for name, want := range tests {
		if got := isContentFile(name); got != want {
			t.Errorf("isContentFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestLoad_ShippedContent(t *testing.T) {
	t.Parallel()

	snap, err := Load(filepath.Join("..", "..", "data"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(snap.ActiveAffirmations()) == 0 || len(snap.ActiveVideos()) == 0 {
		t.Error("shipped content must have active affirmations and videos")
	}
	for _, theme := range models.AllThemes() {
		found := false
		for _, set := range snap.WelcomeSets {
			if set.IsActive && models.ContainsTheme(set.Themes, theme) {
				found = true
			}
		}
		if !found {
			t.Errorf("no active welcome set for theme %s", theme)
		}
	}
}
