package discord

import (
	"time"

	"eventledger/internal/domain"
)

const displayLayout = "Mon 02 Jan 2006, 15:04 MST"

// FormatEventDateTime renders a stored event date in loc. Values that do not
// follow domain.DateLayout are returned as they are.
func FormatEventDateTime(date string, loc *time.Location) string {
	if date == "" {
		return ""
	}
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return date
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(displayLayout)
}
