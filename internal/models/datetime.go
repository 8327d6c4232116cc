package models

import "time"

const dateLayout = "2006-01-02"

// CalendarDate slices the YYYY-MM-DD component out of a date or ISO datetime
// string. The component is taken verbatim, never converted between zones.
// Returns "" when no valid calendar date leads the string.
func CalendarDate(raw string) string {
	if len(raw) < len(dateLayout) {
		return ""
	}
	candidate := raw[:len(dateLayout)]
	if _, err := time.Parse(dateLayout, candidate); err != nil {
		return ""
	}
	if len(raw) > len(dateLayout) {
		// Only a time separator may follow the date
		switch raw[len(dateLayout)] {
		case 'T', 't', ' ':
		default:
			return ""
		}
	}
	return candidate
}

// ClockTime slices HH:MM out of an ISO datetime string, "" when absent
func ClockTime(raw string) string {
	if CalendarDate(raw) == "" || len(raw) < 16 {
		return ""
	}
	clock := raw[11:16]
	if _, err := time.Parse("15:04", clock); err != nil {
		return ""
	}
	return clock
}
