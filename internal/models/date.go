package models

import "time"

// the backend emits ISO timestamps with or without an offset
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseDate parses a backend timestamp. Values without an offset are UTC.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Posted returns the parsed creation time of the post
func (p Post) Posted() (time.Time, bool) {
	return ParseDate(p.DatePosted)
}
