package model

// ConfirmationReason explains why a plan needs the user to confirm it.
type ConfirmationReason string

// Confirmation reasons.
const (
	ReasonAmbiguousTime  ConfirmationReason = "ambiguous_time"
	ReasonMissingFields  ConfirmationReason = "missing_fields"
	ReasonMultipleGuests ConfirmationReason = "multiple_guests"
	ReasonFirstUse       ConfirmationReason = "first_use"
	ReasonLongDuration   ConfirmationReason = "long_duration"
	ReasonRecurring      ConfirmationReason = "recurring"
)

// ActionType is the calendar mutation a plan proposes.
type ActionType string

// Action types. Only ActionCreateEvent is produced by the parser today.
const (
	ActionCreateEvent ActionType = "create_event"
	ActionUpdateEvent ActionType = "update_event"
	ActionDeleteEvent ActionType = "delete_event"
)

// ActionPlan is the parser's verdict on a piece of assistant text.
type ActionPlan struct {
	Action  ActionType
	Reason  ConfirmationReason // first entry of Reasons, empty when none
	Payload CalendarEventDraft
	// Reasons holds every penalty that fired, in detection order. It may
	// contain the same reason more than once.
	Reasons              []ConfirmationReason
	ConfidenceScore      float64
	RequiresConfirmation bool
}

// HasReason reports whether any penalty produced the given reason.
func (p *ActionPlan) HasReason(reason ConfirmationReason) bool {
	for _, r := range p.Reasons {
		if r == reason {
			return true
		}
	}
	return false
}
