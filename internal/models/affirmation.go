package models

// ImageRef points at a static image shipped with the front end
type ImageRef struct {
	Filename string `json:"filename"`
	Alt      string `json:"alt"`
}

// Affirmation is a single affirmation record. Records are loaded once per content
// snapshot and never mutated afterwards.
type Affirmation struct {
	ID       string   `json:"id" validate:"required"`
	Text     string   `json:"text" validate:"required"`
	Author   string   `json:"author"`
	Category string   `json:"category" validate:"required"`
	Themes   []Theme  `json:"themes,omitempty" validate:"dive,theme"`
	Tags     []string `json:"tags,omitempty"`
	Image    ImageRef `json:"image"`
	Active   bool     `json:"active"`
}

// GetID returns the affirmation id
func (a Affirmation) GetID() string { return a.ID }

// HasTheme reports whether the affirmation is tagged with t
func (a Affirmation) HasTheme(t Theme) bool { return ContainsTheme(a.Themes, t) }
