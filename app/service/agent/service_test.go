package agent

import (
	"context"
	"path/filepath"
	"testing"

	"bookbot/app/calendar"
	"bookbot/app/config"
	"bookbot/app/service/scheduler"
	"bookbot/app/service/timeparse"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *scheduler.Service) {
	t.Helper()

	cfg := config.Default()
	cfg.Calendar.Path = filepath.Join(t.TempDir(), "calendar.jsonl")

	di := do.New()
	do.ProvideValue(di, cfg)
	do.Provide(di, func(_ *do.Injector) (calendar.Store, error) {
		return calendar.NewFileStore(cfg.Calendar.Path)
	})
	do.Provide(di, scheduler.New)
	do.Provide(di, timeparse.New)

	svc, err := New(di)
	require.NoError(t, err)

	return svc, do.MustInvoke[*scheduler.Service](di)
}

func TestClassifyIntent(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		text string
		want Intent
	}{
		{"Book me in on Monday", IntentBook},
		{"please SCHEDULE a meeting", IntentBook},
		{"reserve the room", IntentBook},
		{"what's available tomorrow?", IntentQuery},
		{"any free slots?", IntentQuery},
		{"is the morning open?", IntentQuery},
		{"hello there", IntentOther},
		// Booking keywords win over availability keywords.
		{"book me if anything is free", IntentBook},
	}

	for _, tt := range tests {
		req := &Request{RawInput: tt.text}
		svc.classify(context.Background(), req)

		assert.Equal(t, tt.want, req.Intent, tt.text)
	}
}

func TestBookingOnEmptyCalendar(t *testing.T) {
	svc, schedulerSvc := newTestService(t)
	ctx := context.Background()

	result := svc.Handle(ctx, "book 2024-06-01 10:00 for 1 hour")

	assert.Equal(t, IntentBook, result.Intent)
	assert.True(t, result.BookingConfirmed)
	assert.Empty(t, result.AvailableSlots)
	assert.Equal(t, "I've booked your appointment for 2024-06-01 at 10:00. Anything else I can help with?", result.Response)

	appointments, err := schedulerSvc.Appointments(ctx)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, calendar.Appointment{
		Date:    "2024-06-01",
		Start:   "10:00",
		End:     "11:00",
		Summary: "book 2024-06-01 10:00 for 1 hour",
	}, appointments[0])
}

func TestBookingConflictProposesAlternatives(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first := svc.Handle(ctx, "book 2024-06-01 10:00 for 1 hour")
	require.True(t, first.BookingConfirmed)

	second := svc.Handle(ctx, "book 2024-06-01 10:00 for 1 hour")

	assert.False(t, second.BookingConfirmed)
	require.NotNil(t, second.Conflict)
	assert.Equal(t, "2024-06-01", second.Conflict.Date)
	assert.Equal(t, "10:00", second.Conflict.Start)

	assert.Contains(t, second.AvailableSlots, calendar.Slot{Date: "2024-06-01", Start: "09:00", End: "10:00"})
	assert.Contains(t, second.AvailableSlots, calendar.Slot{Date: "2024-06-01", Start: "11:00", End: "12:00"})
	assert.NotContains(t, second.AvailableSlots, calendar.Slot{Date: "2024-06-01", Start: "10:00", End: "11:00"})

	assert.Contains(t, second.Response, "There is already a booking at 10:00 on 2024-06-01")
	assert.Contains(t, second.Response, "Suggested alternatives:")
}

func TestQueryFullyBookedDay(t *testing.T) {
	svc, schedulerSvc := newTestService(t)
	ctx := context.Background()

	_, err := schedulerSvc.Book(ctx, calendar.TimeRequest{Date: "2024-06-01", Start: "09:00", DurationMin: 540}, "offsite")
	require.NoError(t, err)

	result := svc.Handle(ctx, "any free slots on 2024-06-01 10:00 for 30 minutes?")

	assert.Equal(t, IntentQuery, result.Intent)
	assert.False(t, result.BookingConfirmed)
	assert.Equal(t, "No available slots found.", result.Response)
}

func TestBookingWithoutParseableTime(t *testing.T) {
	svc, schedulerSvc := newTestService(t)
	ctx := context.Background()

	result := svc.Handle(ctx, "please book me in for a chat")

	assert.Equal(t, IntentBook, result.Intent)
	assert.Nil(t, result.TimeRequest)
	assert.False(t, result.BookingConfirmed)
	assert.Nil(t, result.Conflict)
	assert.Equal(t, "That slot is unavailable and no alternatives were found.", result.Response)

	appointments, err := schedulerSvc.Appointments(ctx)
	require.NoError(t, err)
	assert.Empty(t, appointments)
}

func TestUnknownIntent(t *testing.T) {
	svc, _ := newTestService(t)

	result := svc.Handle(context.Background(), "how is the weather?")

	assert.Equal(t, IntentOther, result.Intent)
	assert.Equal(t, "Sorry, I didn't understand your request.", result.Response)
}

func TestStorageFailureStillResponds(t *testing.T) {
	cfg := config.Default()

	di := do.New()
	do.ProvideValue(di, cfg)
	do.Provide(di, func(_ *do.Injector) (calendar.Store, error) {
		return brokenStore{}, nil
	})
	do.Provide(di, scheduler.New)
	do.Provide(di, timeparse.New)

	svc, err := New(di)
	require.NoError(t, err)

	result := svc.Handle(context.Background(), "book 2024-06-01 10:00 for 1 hour")

	assert.True(t, result.StorageFailed)
	assert.False(t, result.BookingConfirmed)
	assert.Equal(t, "Sorry, the calendar is unavailable right now. Please try again.", result.Response)
}

type brokenStore struct{}

func (brokenStore) Load(context.Context) ([]calendar.Appointment, error) {
	return nil, assert.AnError
}

func (brokenStore) Append(context.Context, calendar.Appointment) error {
	return assert.AnError
}
