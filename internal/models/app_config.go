package models

// AppConfig mirrors app-config.json
type AppConfig struct {
	App struct {
		Name        string `json:"name" validate:"required"`
		Version     string `json:"version"`
		Description string `json:"description"`
	} `json:"app"`
	Features struct {
		ThemeSwitching   bool `json:"theme_switching"`
		PersistentThemes bool `json:"persistent_themes"`
		Randomization    bool `json:"randomization"`
		OfflineMode      bool `json:"offline_mode"`
	} `json:"features"`
	UI struct {
		DefaultTheme    Theme  `json:"default_theme" validate:"omitempty,theme"`
		AutoThemeSwitch bool   `json:"auto_theme_switch"`
		AnimationSpeed  string `json:"animation_speed"`
		ShowThumbnails  bool   `json:"show_thumbnails"`
		ShowTimestamps  bool   `json:"show_timestamps"`
	} `json:"ui"`
}

// DefaultAppConfig is used when app-config.json is missing or unreadable
func DefaultAppConfig() AppConfig {
	var cfg AppConfig
	cfg.App.Name = "Morning Affirmations"
	cfg.App.Version = "1.0.0"
	cfg.App.Description = "Daily affirmations and wellness resources"
	cfg.Features.ThemeSwitching = true
	cfg.Features.PersistentThemes = true
	cfg.Features.Randomization = true
	cfg.UI.DefaultTheme = DefaultTheme
	cfg.UI.AnimationSpeed = "normal"
	cfg.UI.ShowThumbnails = true
	return cfg
}
