package event

import (
	"strings"
	"time"
)

// ZuluLayout is the compact UTC form used by calendar deep links
const ZuluLayout = "20060102T150405Z"

// local layouts are interpreted in the caller's location
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseLocal parses a date produced by the language model
// Values with an explicit offset keep their offset, everything else is read in loc.
func ParseLocal(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// ToZulu converts a local date to YYYYMMDDTHHmmssZ in UTC
// Empty or unparseable input returns empty string.
func ToZulu(value string, loc *time.Location) string {
	t, ok := ParseLocal(value, loc)
	if !ok {
		return ""
	}

	return FormatZulu(t)
}

func FormatZulu(t time.Time) string {
	return t.UTC().Format(ZuluLayout)
}
