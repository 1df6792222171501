package models

// FallbackWelcomeMessage is shown whenever no configured message applies
const FallbackWelcomeMessage = "Good morning!"

// TimeRange is a named window of the day. StartTime and EndTime use HH:MM; a range
// whose start is after its end wraps past midnight.
type TimeRange struct {
	ID        string   `json:"id" validate:"required"`
	StartTime string   `json:"start_time" validate:"required,hhmm"`
	EndTime   string   `json:"end_time" validate:"required,hhmm"`
	Messages  []string `json:"messages"`
}

// WelcomeMessageSet holds the time ranges for one or more themes
type WelcomeMessageSet struct {
	Themes     []Theme     `json:"theme" validate:"required,dive,theme"`
	IsActive   bool        `json:"is_active"`
	TimeRanges []TimeRange `json:"time_ranges" validate:"dive"`
}
