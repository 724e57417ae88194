package agent

import (
	"fmt"
	"strings"

	"bookbot/app/calendar"

	"github.com/elliotchance/pie/v2"
)

const (
	responseNoSlots        = "No available slots found."
	responseNotUnderstood  = "Sorry, I didn't understand your request."
	responseNoAlternatives = "That slot is unavailable and no alternatives were found."
	responseStorageFailure = "Sorry, the calendar is unavailable right now. Please try again."
)

// Compose renders the final response text from a finished pipeline
// context. Pure: identical contexts always yield identical text.
func Compose(req *Request) string {
	if req.StorageFailed && req.Intent != IntentOther {
		return responseStorageFailure
	}

	switch req.Intent {
	case IntentQuery:
		return composeQuery(req)
	case IntentBook:
		return composeBooking(req)
	default:
		return responseNotUnderstood
	}
}

func composeQuery(req *Request) string {
	if len(req.AvailableSlots) == 0 {
		return responseNoSlots
	}

	return "Available slots: " + joinSlots(req.AvailableSlots)
}

func composeBooking(req *Request) string {
	if req.BookingConfirmed {
		return fmt.Sprintf("I've booked your appointment for %s at %s. Anything else I can help with?",
			req.TimeRequest.Date, req.TimeRequest.Start)
	}

	if req.Conflict != nil {
		summary := req.Conflict.Summary
		if summary == "" {
			summary = "another event"
		}

		msg := fmt.Sprintf("There is already a booking at %s on %s: %s. Would you like to choose another time?",
			req.Conflict.Start, req.Conflict.Date, summary)

		if len(req.AvailableSlots) > 0 {
			msg += " Suggested alternatives: " + joinSlots(req.AvailableSlots) + "."
		}

		return msg
	}

	if len(req.AvailableSlots) > 0 {
		return fmt.Sprintf("That slot is unavailable. Would you like %s?", joinSlots(req.AvailableSlots))
	}

	return responseNoAlternatives
}

func joinSlots(slots []calendar.Slot) string {
	parts := pie.Map(slots, func(s calendar.Slot) string {
		return s.Start + "-" + s.End
	})

	return strings.Join(parts, ", ")
}
