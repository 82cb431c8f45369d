package validate

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Text field length limits shared by the API and the editor form.
const (
	MaxSourceURLLength = 2048
	MaxBrandNameLength = 100
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// checkLen counts characters, matching the form maxlength and validator max tags.
func checkLen(value string, max int, field string) string {
	if utf8.RuneCountInString(value) > max {
		return fmt.Sprintf("%s must be %d characters or fewer", field, max)
	}
	return ""
}

func SourceURL(s string) string { return checkLen(s, MaxSourceURLLength, "url") }
func BrandName(s string) string { return checkLen(s, MaxBrandNameLength, "brand name") }

// IsHexColor reports whether s is a #RRGGBB color.
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// ColorOr returns s when it is a valid hex color, fallback otherwise.
func ColorOr(s, fallback string) string {
	if IsHexColor(s) {
		return s
	}
	return fallback
}

// FieldLimits returns a map of field names to max lengths for the /api/limits endpoint.
func FieldLimits() map[string]int {
	return map[string]int{
		"url":       MaxSourceURLLength,
		"brandName": MaxBrandNameLength,
	}
}
