package calendar

import "time"

// Window is the daily range scanned for alternative slots.
type Window struct {
	Start   string
	End     string
	StepMin int
}

func DefaultWindow() Window {
	return Window{Start: "09:00", End: "18:00", StepMin: 30}
}

// FindFreeSlots scans the working window on date in fixed steps and
// returns every candidate of the given duration that overlaps no
// booking, in chronological order. A duration that never fits the
// window yields an empty result, not an error.
func FindFreeSlots(w Window, date string, durationMin int, booked []Appointment) []Slot {
	slots := make([]Slot, 0)

	if durationMin <= 0 {
		return slots
	}

	dayStart, err := At(date, w.Start)
	if err != nil {
		return slots
	}

	dayEnd, err := At(date, w.End)
	if err != nil {
		return slots
	}

	duration := time.Duration(durationMin) * time.Minute
	step := time.Duration(w.StepMin) * time.Minute

	for cur := dayStart; !cur.Add(duration).After(dayEnd); cur = cur.Add(step) {
		end := cur.Add(duration)

		if hasConflict(cur, end, booked) {
			continue
		}

		slots = append(slots, Slot{
			Date:  date,
			Start: cur.Format(ClockLayout),
			End:   end.Format(ClockLayout),
		})
	}

	return slots
}

func hasConflict(start, end time.Time, booked []Appointment) bool {
	for _, appt := range booked {
		if overlapsAppointment(start, end, appt) {
			return true
		}
	}

	return false
}
