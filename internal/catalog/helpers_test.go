package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

const testAffirmations = `{"affirmations": [
  {"id": "a1", "text": "I am calm", "author": "Unknown", "category": "peace", "themes": ["peaceful"], "active": true},
  {"id": "a2", "text": "I am strong", "author": "Unknown", "category": "confidence", "themes": ["energetic"], "active": true},
  {"id": "a3", "text": "Retired", "author": "Unknown", "category": "peace", "active": false}
]}`

const testVideos = `{"videos": [
  {"id": "v1", "title": "Morning Flow", "url": "https://www.youtube.com/watch?v=1", "creator": "Ana", "creator_channel": "@ana", "category": "yoga", "themes": ["peaceful"], "active": true},
  {"id": "v2", "title": "Psalm 23", "url": "https://www.youtube.com/watch?v=2", "creator": "Ben", "creator_channel": "@ben", "category": "bible", "themes": ["peaceful", "restorative"], "active": true},
  {"id": "v3", "title": "Old", "url": "https://www.youtube.com/watch?v=3", "creator": "Cy", "creator_channel": "@cy", "category": "yoga", "themes": ["peaceful"], "active": false}
]}`

const testWelcomeSets = `{"sets": [
  {"theme": ["energetic"], "is_active": true, "time_ranges": [
    {"id": "morning", "start_time": "09:00", "end_time": "11:59", "messages": ["Good morning!", "Rise and shine!"]}
  ]}
]}`

const testWelcomeLegacy = `{"themes": {
  "restorative": {"time_ranges": [{"id": "night", "start_time": "21:00", "end_time": "04:59", "messages": ["Rest well"]}]},
  "peaceful": {"time_ranges": [{"id": "morning", "start_time": "06:00", "end_time": "11:59", "messages": ["Hello"]}]}
}}`

const testThemes = `{"themes": [
  {"id": "peaceful", "name": "Peaceful", "colors": {"primary": "#88a"}, "active": true},
  {"id": "energetic", "name": "Energetic", "colors": {"primary": "#f80"}, "active": false}
]}`

const testAppConfig = `{"app": {"name": "Morning Affirmations", "version": "2.0.0"}, "ui": {"default_theme": "restorative"}}`

// writeContent writes a complete content directory, overriding files present in overrides.
// An empty override removes the file.
func writeContent(t *testing.T, overrides map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		AffirmationsFile:    testAffirmations,
		VideosFile:          testVideos,
		WelcomeMessagesFile: testWelcomeSets,
		ThemesFile:          testThemes,
		AppConfigFile:       testAppConfig,
	}
	for name, body := range overrides {
		files[name] = body
	}
	for name, body := range files {
		if body == "" {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}
