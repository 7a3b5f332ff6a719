package utils

import (
	"fmt"
	"strings"
	"time"
)

// FormLayout is the start time format accepted from HTML forms.
const FormLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders t as RFC 3339 in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseStartTime accepts RFC 3339, or FormLayout interpreted in loc.
func ParseStartTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation(FormLayout, value, loc); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid start time %q", value)
}
