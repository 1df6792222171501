package handlers

import (
	"net/http"
	"testing"

	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/google/uuid"
)

func TestPreferences_Defaults(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testSnapshot())
	session := uuid.New()

	resp, body := env.do(t, "GET", "/api/v1/preferences", session, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	prefs := decodeData[models.Preferences](t, body)
	if prefs.SessionID != session || prefs.Theme != models.ThemePeaceful {
		t.Errorf("Unexpected defaults %+v", prefs)
	}
}

func TestPreferences_Update(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		disable    func(*models.AppConfig)
		body       string
		wantStatus int
		wantTheme  models.Theme
	}{
		{"switch theme", nil, `{"theme":"energetic","is_persistent":true}`, http.StatusOK, models.ThemeEnergetic},
		{"random only", nil, `{"is_random":true}`, http.StatusOK, models.ThemePeaceful},
		{"invalid theme", nil, `{"theme":"gloomy"}`, http.StatusBadRequest, ""},
		{"malformed", nil, `not json`, http.StatusBadRequest, ""},
		{
			"randomization disabled",
			func(c *models.AppConfig) { c.Features.Randomization = false },
			`{"is_random":true}`, http.StatusForbidden, "",
		},
		{
			"theme switching disabled",
			func(c *models.AppConfig) { c.Features.ThemeSwitching = false },
			`{"theme":"energetic"}`, http.StatusForbidden, "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snap := testSnapshot()
			if tt.disable != nil {
				tt.disable(&snap.AppConfig)
			}
			env := newTestEnv(t, snap)
			session := uuid.New()

			resp, body := env.do(t, "PUT", "/api/v1/preferences", session, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("Expected %d, got %d (%s)", tt.wantStatus, resp.StatusCode, body.Message)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			_, body = env.do(t, "GET", "/api/v1/preferences", session, "")
			if prefs := decodeData[models.Preferences](t, body); prefs.Theme != tt.wantTheme {
				t.Errorf("Expected stored theme %s, got %s", tt.wantTheme, prefs.Theme)
			}
		})
	}
}

func TestPreferences_ThemeDrivesContent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testSnapshot())
	session := uuid.New()
	env.do(t, "PUT", "/api/v1/preferences", session, `{"theme":"energetic"}`)

	_, body := env.do(t, "GET", "/api/v1/affirmation", session, "")
	got := decodeData[AffirmationResponse](t, body)
	if got.Theme != models.ThemeEnergetic || got.Affirmation.ID != "a2" {
		t.Errorf("Expected energetic a2, got %s %s", got.Theme, got.Affirmation.ID)
	}
}

func TestPreferences_Reset(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testSnapshot())
	session := uuid.New()

	if resp, body := env.do(t, "PUT", "/api/v1/preferences", session, `{"theme":"energetic","is_random":true}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT: expected 200, got %d (%s)", resp.StatusCode, body.Message)
	}

	resp, body := env.do(t, "DELETE", "/api/v1/preferences", session, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("DELETE: expected 200, got %d (%s)", resp.StatusCode, body.Message)
	}
	prefs := decodeData[models.Preferences](t, body)
	if prefs.Theme != models.ThemePeaceful || prefs.IsRandom {
		t.Errorf("expected defaults after reset, got %+v", prefs)
	}
}
