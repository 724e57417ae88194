package agent

import "bookbot/app/calendar"

type Intent string

const (
	IntentBook  Intent = "book"
	IntentQuery Intent = "query"
	IntentOther Intent = "other"
)

// bookingKeywords take priority over availabilityKeywords.
var (
	bookingKeywords      = []string{"book", "schedule", "reserve"}
	availabilityKeywords = []string{"available", "free", "slots", "open"}
)

// Request is the mutable context one pipeline run accumulates. It is
// owned by a single run and discarded after the response is composed.
type Request struct {
	RawInput string

	Intent           Intent
	TimeRequest      *calendar.TimeRequest
	AvailableSlots   []calendar.Slot
	Conflict         *calendar.Appointment
	BookingConfirmed bool
	StorageFailed    bool

	Response string
}
