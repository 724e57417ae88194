package calendar

// Resolution is the outcome of checking a time request against the
// booked appointments.
type Resolution struct {
	Available    bool
	Conflict     *Appointment
	Alternatives []Slot
}

// Resolve determines whether the requested interval is free. When it
// is not, Conflict is the first overlapping appointment in store order
// and Alternatives lists the free slots of the same duration on the
// requested date. Alternatives are not computed for available requests.
func Resolve(req TimeRequest, booked []Appointment, w Window) Resolution {
	if _, _, err := req.Interval(); err != nil {
		return Resolution{
			Available:    false,
			Alternatives: FindFreeSlots(w, req.Date, req.DurationMin, booked),
		}
	}

	conflict := FirstConflict(req, booked)
	if conflict == nil {
		return Resolution{Available: true, Alternatives: make([]Slot, 0)}
	}

	return Resolution{
		Available:    false,
		Conflict:     conflict,
		Alternatives: FindFreeSlots(w, req.Date, req.DurationMin, booked),
	}
}

// FirstConflict returns the first appointment in store iteration order
// that overlaps the requested interval, or nil. Store order, not start
// time, breaks ties: the scan mirrors a first-match lookup and callers
// depend on which conflict gets reported.
func FirstConflict(req TimeRequest, booked []Appointment) *Appointment {
	start, end, err := req.Interval()
	if err != nil {
		return nil
	}

	for i := range booked {
		if overlapsAppointment(start, end, booked[i]) {
			return &booked[i]
		}
	}

	return nil
}
