package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/primer-app/primer/internal/model"
)

// DefaultTitle is used when no usable title can be extracted.
const DefaultTitle = "New Event"

// Extraction defaults.
const (
	DefaultHour            = 9
	DefaultDurationMinutes = 60
	minDurationMinutes     = 1
	// MaxDurationMinutes caps extracted lengths at 30 days.
	MaxDurationMinutes = 30 * 24 * 60
)

// ClockTime is an hour and minute of day.
type ClockTime struct {
	Hour   int
	Minute int
}

// dateRule resolves a calendar day from text. Rules are evaluated in order
// and the first one that reports ok decides the date.
type dateRule struct {
	resolve func(text string, now time.Time) (time.Time, bool)
	name    string
}

var dateRules = []dateRule{
	{name: "tomorrow", resolve: func(text string, now time.Time) (time.Time, bool) {
		if !tomorrowRe.MatchString(text) {
			return time.Time{}, false
		}
		return now.AddDate(0, 0, 1), true
	}},
	{name: "today", resolve: func(text string, now time.Time) (time.Time, bool) {
		if !todayRe.MatchString(text) {
			return time.Time{}, false
		}
		return now, true
	}},
	{name: "next_weekday", resolve: func(text string, now time.Time) (time.Time, bool) {
		m := nextDayRe.FindStringSubmatch(text)
		if m == nil {
			return time.Time{}, false
		}
		days := weekdays[strings.ToLower(m[1])] - int(now.Weekday())
		if days <= 0 {
			days += 7
		}
		return now.AddDate(0, 0, days), true
	}},
	{name: "this_weekday", resolve: func(text string, now time.Time) (time.Time, bool) {
		m := thisDayRe.FindStringSubmatch(text)
		if m == nil {
			return time.Time{}, false
		}
		days := weekdays[strings.ToLower(m[1])] - int(now.Weekday())
		if days < 0 {
			days += 7
		}
		return now.AddDate(0, 0, days), true
	}},
	{name: "next_week", resolve: func(text string, now time.Time) (time.Time, bool) {
		if !nextWeekRe.MatchString(text) {
			return time.Time{}, false
		}
		return now.AddDate(0, 0, 7), true
	}},
}

// ExtractDate returns the day the text refers to, keeping now's clock time
// and location. Without any date signal the result is tomorrow.
func ExtractDate(text string, now time.Time) time.Time {
	for _, rule := range dateRules {
		if date, ok := rule.resolve(text, now); ok {
			return date
		}
	}
	return now.AddDate(0, 0, 1)
}

var dayPartHours = map[string]int{
	"morning":   9,
	"afternoon": 14,
	"evening":   18,
	"night":     20,
}

// ExtractTime returns the time of day mentioned in text. An explicit clock
// time wins over a day-part word. ok is false when neither is present.
func ExtractTime(text string) (ClockTime, bool) {
	if t, ok := explicitTime(text); ok {
		return t, true
	}

	if m := dayPartRe.FindStringSubmatch(text); m != nil {
		if hour, found := dayPartHours[strings.ToLower(m[1])]; found {
			return ClockTime{Hour: hour}, true
		}
	}

	return ClockTime{}, false
}

// explicitTime parses the first clock-time expression in text.
func explicitTime(text string) (ClockTime, bool) {
	for _, m := range exactTimeRe.FindAllStringSubmatch(text, -1) {
		// Exactly one of the three alternatives populated its groups.
		hourStr, minStr, period := m[1], m[2], m[3]
		switch {
		case m[4] != "":
			hourStr, minStr, period = m[4], m[5], m[6]
		case m[7] != "":
			hourStr, minStr, period = m[7], "", m[8]
		}

		hour, err := strconv.Atoi(hourStr)
		if err != nil {
			continue
		}
		minute := 0
		if minStr != "" {
			if minute, err = strconv.Atoi(minStr); err != nil {
				continue
			}
		}

		period = strings.ToLower(period)
		if period != "" && (hour < 1 || hour > 12) {
			continue
		}
		if hour > 23 {
			continue
		}

		// Convert to 24-hour format
		if period == "pm" && hour < 12 {
			hour += 12
		}
		if period == "am" && hour == 12 {
			hour = 0
		}

		return ClockTime{Hour: hour, Minute: minute}, true
	}
	return ClockTime{}, false
}

// HasExplicitTime reports whether text contains a clock time.
func HasExplicitTime(text string) bool {
	_, ok := explicitTime(text)
	return ok
}

// ExtractDuration returns the event length in minutes, defaulting to an hour.
func ExtractDuration(text string) int {
	m := durationRe.FindStringSubmatch(text)
	if m == nil {
		return DefaultDurationMinutes
	}

	value, err := strconv.Atoi(m[1])
	if err != nil {
		// The pattern only matches digits, so this is an out-of-range count.
		return MaxDurationMinutes
	}

	unit := strings.ToLower(m[2])
	if strings.HasPrefix(unit, "hour") || strings.HasPrefix(unit, "hr") {
		if value > MaxDurationMinutes/60 {
			return MaxDurationMinutes
		}
		value *= 60
	}
	return min(max(value, minDurationMinutes), MaxDurationMinutes)
}

// ExtractDescription returns the text following "about", "regarding",
// "to discuss" or "for", up to the next period.
func ExtractDescription(text string) string {
	m := descriptionRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ExtractTitle returns the event title or DefaultTitle.
func ExtractTitle(text string) string {
	title := ""
	if m := titleRe.FindStringSubmatch(text); m != nil {
		title = strings.TrimSpace(m[1])
	}

	title = strings.TrimSpace(titleTrailingRe.ReplaceAllString(title, ""))
	if isDegenerateTitle(title) {
		return DefaultTitle
	}
	return title
}

// isDegenerateTitle rejects spans too short to be a title and spans that
// are only a date marker ("tomorrow at 2pm" yields "tomorrow").
func isDegenerateTitle(title string) bool {
	if len(title) < 2 {
		return true
	}
	switch strings.ToLower(title) {
	case "tomorrow", "today", "next", "at", "on", "for":
		return true
	}
	return false
}

// ExtractDraft builds a draft from text. It never fails: missing signals
// fall back to defaults and are penalized later by the scorer.
func ExtractDraft(text string, now time.Time) model.CalendarEventDraft {
	date := ExtractDate(text, now)

	clock, ok := ExtractTime(text)
	if !ok {
		clock = ClockTime{Hour: DefaultHour}
	}
	startAt := time.Date(date.Year(), date.Month(), date.Day(), clock.Hour, clock.Minute, 0, 0, date.Location())

	duration := ExtractDuration(text)
	endAt := startAt.Add(time.Duration(duration) * time.Minute)

	return model.CalendarEventDraft{
		Title:       ExtractTitle(text),
		Description: ExtractDescription(text),
		StartAt:     startAt,
		EndAt:       endAt,
		Source:      model.SourceChat,
		Recurrence:  RecurrenceRule(text, startAt),
	}
}
