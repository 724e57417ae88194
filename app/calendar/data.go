package calendar

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Appointment is a confirmed booking. Once stored it is never mutated,
// only new appointments are appended.
type Appointment struct {
	Date    string `json:"date"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Summary string `json:"summary"`
}

// Slot is a candidate interval that has not been persisted.
type Slot struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// TimeRequest is a structured time request extracted from free text.
type TimeRequest struct {
	Date        string
	Start       string
	DurationMin int
}

func (r TimeRequest) Interval() (time.Time, time.Time, error) {
	start, err := At(r.Date, r.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return start, start.Add(time.Duration(r.DurationMin) * time.Minute), nil
}

func (r TimeRequest) End() (string, error) {
	_, end, err := r.Interval()
	if err != nil {
		return "", err
	}

	return end.Format(ClockLayout), nil
}

func (a Appointment) Interval() (time.Time, time.Time, error) {
	start, err := At(a.Date, a.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end, err := At(a.Date, a.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return start, end, nil
}

// At combines an ISO date and an HH:MM clock into a local instant.
func At(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+ClockLayout, date+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, clock, err)
	}

	return t, nil
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share an
// instant. Half-open: touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// overlapsAppointment is false for appointments that fail to parse, so
// a single malformed record cannot block the whole day.
func overlapsAppointment(start, end time.Time, appt Appointment) bool {
	apptStart, apptEnd, err := appt.Interval()
	if err != nil {
		return false
	}

	return Overlaps(start, end, apptStart, apptEnd)
}
