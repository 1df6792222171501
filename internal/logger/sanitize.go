package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Length caps applied before a request-derived value reaches a log entry
const (
	MaxPathLength         = 500
	MaxQueryValueLength   = 100
	MaxErrorMessageLength = 1000
	defaultMaxLength      = 2000
)

const ellipsis = "..."

// SanitizeString strips control characters and invalid UTF-8 from s and cuts it to at
// most maxLength bytes on a rune boundary. A non-positive maxLength uses the default cap.
func SanitizeString(s string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = defaultMaxLength
	}
	s = strings.Map(keepLoggable, strings.ToValidUTF8(s, ""))
	if len(s) <= maxLength {
		return s
	}
	cut := maxLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis
}

func keepLoggable(r rune) rune {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return r
	case unicode.IsPrint(r):
		return r
	default:
		return -1
	}
}

func SanitizePath(path string) string {
	return SanitizeString(path, MaxPathLength)
}

// SanitizeQueryValue is for user supplied parameters such as theme and at
func SanitizeQueryValue(value string) string {
	return SanitizeString(value, MaxQueryValueLength)
}

func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error(), MaxErrorMessageLength)
}
