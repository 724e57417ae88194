package scheduler

import (
	"context"
	"path/filepath"
	"testing"

	"bookbot/app/calendar"
	"bookbot/app/config"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	cfg := config.Default()
	cfg.Calendar.Path = filepath.Join(t.TempDir(), "calendar.jsonl")

	di := do.New()
	do.ProvideValue(di, cfg)
	do.Provide(di, func(_ *do.Injector) (calendar.Store, error) {
		return calendar.NewFileStore(cfg.Calendar.Path)
	})

	svc, err := New(di)
	require.NoError(t, err)

	return svc
}

func TestBookThenRecheckReportsConflict(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	req := calendar.TimeRequest{Date: "2024-06-01", Start: "10:00", DurationMin: 60}

	res, err := svc.Book(ctx, req, "standup")
	require.NoError(t, err)
	assert.True(t, res.Available)

	recheck, err := svc.Check(ctx, req)
	require.NoError(t, err)
	assert.False(t, recheck.Available)
	require.NotNil(t, recheck.Conflict)
	assert.Equal(t, calendar.Appointment{
		Date:    "2024-06-01",
		Start:   "10:00",
		End:     "11:00",
		Summary: "standup",
	}, *recheck.Conflict)
}

func TestBookSameSlotTwice(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	req := calendar.TimeRequest{Date: "2024-06-01", Start: "10:00", DurationMin: 60}

	res, err := svc.Book(ctx, req, "first")
	require.NoError(t, err)
	assert.True(t, res.Available)

	res, err = svc.Book(ctx, req, "second")
	require.NoError(t, err)
	assert.False(t, res.Available)
	require.NotNil(t, res.Conflict)
	assert.Equal(t, "first", res.Conflict.Summary)

	appointments, err := svc.Appointments(ctx)
	require.NoError(t, err)
	assert.Len(t, appointments, 1)
}

func TestBookAdjacentSlotsSucceeds(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.Book(ctx, calendar.TimeRequest{Date: "2024-06-01", Start: "09:00", DurationMin: 60}, "a")
	require.NoError(t, err)
	assert.True(t, res.Available)

	// Half-open intervals: 10:00 starts exactly where the first ends.
	res, err = svc.Book(ctx, calendar.TimeRequest{Date: "2024-06-01", Start: "10:00", DurationMin: 60}, "b")
	require.NoError(t, err)
	assert.True(t, res.Available)
}
