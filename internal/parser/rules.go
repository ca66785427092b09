package parser

import "regexp"

// intentRule is one phrasing that signals the assistant is creating or
// offering to create a calendar entry. Rules are evaluated in slice order and
// the first match wins.
type intentRule struct {
	re   *regexp.Regexp
	name string
}

var intentRules = []intentRule{
	// Direct creation statements
	{name: "direct", re: regexp.MustCompile(`(?i)(?:create|schedule|add|set up|book|make)\s+(?:an?\s+)?(?:meeting|event|appointment|call|reminder)`)},
	{name: "direct_qualified", re: regexp.MustCompile(`(?i)\b(?:create|schedule|add|set up|book|make)\s+(?:a|an)\s+(?:[\w-]+\s+){1,3}?(?:meeting|event|appointment|call|reminder)\b`)},
	{name: "announce", re: regexp.MustCompile(`(?i)(?:I'll|let me|I will|I'm going to|I am going to)\s+(?:create|schedule|add|set up)\s+(?:an?\s+)?(?:meeting|event)`)},
	{name: "progressive", re: regexp.MustCompile(`(?i)(?:scheduling|creating|adding|setting up|booking)\s+(?:an?\s+)?(?:meeting|event)`)},

	// Offers
	{name: "offer", re: regexp.MustCompile(`(?i)(?:I can|I could|I'd be happy to)\s+(?:help you\s+)?(?:create|schedule|add|set up|book)\s+(?:an?\s+)?(?:meeting|event)`)},
	{name: "proposal", re: regexp.MustCompile(`(?i)\blet(?:'|’)?s\s+(?:do|have|set up|schedule|book|plan)\s+(?:a|an)\s+(?:[\w-]+\s+){0,3}?(?:meeting|event|appointment|call)\b`)},

	// Confirmations
	{name: "passive_confirmation", re: regexp.MustCompile(`(?i)(?:event|meeting)\s+(?:has been|is|was)\s+(?:created|scheduled|added|booked)`)},
	{name: "perfect_confirmation", re: regexp.MustCompile(`(?i)(?:I've|I have)\s+(?:created|scheduled|added|set up|booked)\s+(?:an?\s+)?(?:meeting|event)`)},

	// Portuguese requests
	{name: "portuguese", re: regexp.MustCompile(`(?i)(?:agendar|criar|marcar)\s+(?:uma?\s+)?(?:reunião|evento|compromisso)`)},
}

// matchIntent returns the name of the first intent rule matching text.
func matchIntent(text string) (string, bool) {
	for _, rule := range intentRules {
		if rule.re.MatchString(text) {
			return rule.name, true
		}
	}
	return "", false
}

// Patterns shared by the extractor and the scorer.
var (
	// exactTimeRe accepts "at 2", "at 2:30pm", "14:00", "10am". A bare number
	// without "at", minutes or a meridiem is not treated as a clock time.
	exactTimeRe = regexp.MustCompile(`(?i)\b(?:at\s+(\d{1,2})(?::([0-5]\d))?\s*(am|pm)?|(\d{1,2}):([0-5]\d)\s*(am|pm)?|(\d{1,2})\s*(am|pm))\b`)

	tomorrowRe = regexp.MustCompile(`(?i)\btomorrow\b`)
	todayRe    = regexp.MustCompile(`(?i)\btoday\b`)
	nextDayRe  = regexp.MustCompile(`(?i)\bnext\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	thisDayRe  = regexp.MustCompile(`(?i)\bthis\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	nextWeekRe = regexp.MustCompile(`(?i)\bnext\s+week\b`)

	dayPartRe = regexp.MustCompile(`(?i)\b(afternoon|evening|morning|night)\b`)
	vagueRe   = regexp.MustCompile(`(?i)\b(sometime|later|soon)\b`)

	durationRe = regexp.MustCompile(`(?i)\b(\d+)\s*(hours?|hrs?|minutes?|mins?)\b`)

	titleRe         = regexp.MustCompile(`(?i)(?:meeting|event|appointment|call|reminder)\s+(?:called\s+|named\s+|titled\s+)?["']?([^"'\n,]+?)["']?\s*(?:\b(?:at|on|for|tomorrow|today|next)\b|$)`)
	titleTrailingRe = regexp.MustCompile(`(?i)\s+(?:at|on|for)$`)
	descriptionRe   = regexp.MustCompile(`(?i)\b(?:about|regarding|to discuss|for)\s+(.+?)(?:\.|$)`)

	recurringRe = regexp.MustCompile(`(?i)\b(every|weekly|daily|monthly|recurring)\b`)
	guestsRe    = regexp.MustCompile(`(?i)\b(with|invite|attendees?|guests?|team)\b`)
)

var weekdays = map[string]int{
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}
