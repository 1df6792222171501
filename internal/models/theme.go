package models

// Theme represents the mood a visitor has chosen
type Theme string

const (
	ThemePeaceful    Theme = "peaceful"
	ThemeEnergetic   Theme = "energetic"
	ThemeRestorative Theme = "restorative"
)

// DefaultTheme is used when neither the request, the session nor the app config names one
const DefaultTheme = ThemePeaceful

// AllThemes returns every supported theme in display order
func AllThemes() []Theme {
	return []Theme{ThemePeaceful, ThemeEnergetic, ThemeRestorative}
}

// Valid reports whether t is one of the supported themes
func (t Theme) Valid() bool {
	switch t {
	case ThemePeaceful, ThemeEnergetic, ThemeRestorative:
		return true
	default:
		return false
	}
}

// ContainsTheme reports whether themes includes t
func ContainsTheme(themes []Theme, t Theme) bool {
	for _, candidate := range themes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ThemeConfig describes how a theme is presented. Colors and fonts are opaque to the
// backend and passed through to the front end unchanged.
type ThemeConfig struct {
	ID          Theme             `json:"id" validate:"required,theme"`
	Name        string            `json:"name" validate:"required"`
	Description string            `json:"description"`
	Colors      map[string]string `json:"colors" validate:"required"`
	Fonts       map[string]string `json:"fonts,omitempty"`
	Active      bool              `json:"active"`
}
