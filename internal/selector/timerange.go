package selector

import (
	"time"

	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/benvon/morning-affirmations/internal/validation"
)

// minuteOfDay returns minutes after midnight of t's wall clock
func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// rangeContains reports whether nowMinutes falls inside r, both ends inclusive.
// Ranges with an unparsable boundary never match.
func rangeContains(r models.TimeRange, nowMinutes int) bool {
	start, err := validation.ParseClockMinutes(r.StartTime)
	if err != nil {
		return false
	}
	end, err := validation.ParseClockMinutes(r.EndTime)
	if err != nil {
		return false
	}
	if start > end {
		return nowMinutes >= start || nowMinutes <= end
	}
	return nowMinutes >= start && nowMinutes <= end
}

// activeTimeRange returns the first range in list order containing nowMinutes
func activeTimeRange(ranges []models.TimeRange, nowMinutes int) (models.TimeRange, bool) {
	for _, r := range ranges {
		if rangeContains(r, nowMinutes) {
			return r, true
		}
	}
	return models.TimeRange{}, false
}

// activeMessageSet returns the first active set tagged with theme
func activeMessageSet(sets []models.WelcomeMessageSet, theme models.Theme) (models.WelcomeMessageSet, bool) {
	for _, set := range sets {
		if set.IsActive && models.ContainsTheme(set.Themes, theme) {
			return set, true
		}
	}
	return models.WelcomeMessageSet{}, false
}
