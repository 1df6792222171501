package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but log if they do
	if err := Validate.RegisterValidation("theme", validateTheme); err != nil {
		panic(fmt.Sprintf("failed to register theme validator: %v", err))
	}
	if err := Validate.RegisterValidation("video_category", validateVideoCategory); err != nil {
		panic(fmt.Sprintf("failed to register video_category validator: %v", err))
	}
	if err := Validate.RegisterValidation("hhmm", validateClockTime); err != nil {
		panic(fmt.Sprintf("failed to register hhmm validator: %v", err))
	}
}

// validateTheme validates that a string is a valid Theme enum value
func validateTheme(fl validator.FieldLevel) bool {
	return models.Theme(fl.Field().String()).Valid()
}

// validateVideoCategory validates that a string is a valid VideoCategory enum value
func validateVideoCategory(fl validator.FieldLevel) bool {
	return models.VideoCategory(fl.Field().String()).Valid()
}

// validateClockTime validates an HH:MM wall-clock time
func validateClockTime(fl validator.FieldLevel) bool {
	_, err := ParseClockMinutes(fl.Field().String())
	return err == nil
}

// ParseClockMinutes converts "HH:MM" into minutes after midnight
func ParseClockMinutes(value string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", value)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour*60 + minute, nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}
