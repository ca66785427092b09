package parser

import "time"

// FormatEventDate renders a date like "Mon, Jan 2".
func FormatEventDate(t time.Time) string {
	return t.Format("Mon, Jan 2")
}

// FormatEventTime renders a time like "3:04 PM".
func FormatEventTime(t time.Time) string {
	return t.Format("3:04 PM")
}

// FormatEventRange renders "Mon, Jan 2 · 3:04 PM - 4:04 PM".
func FormatEventRange(start, end time.Time) string {
	return FormatEventDate(start) + " · " + FormatEventTime(start) + " - " + FormatEventTime(end)
}
