package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"bookbot/app/calendar"
	"bookbot/app/config"

	"github.com/samber/do"
)

// Service owns the shared appointment store and serializes bookings:
// two concurrent requests for the same slot cannot both pass the
// availability check.
type Service struct {
	store  calendar.Store
	window calendar.Window

	bookMu sync.Mutex
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Service{
		store: do.MustInvoke[calendar.Store](di),
		window: calendar.Window{
			Start:   cfg.Calendar.WindowStart,
			End:     cfg.Calendar.WindowEnd,
			StepMin: cfg.Calendar.StepMinutes,
		},
	}, nil
}

func (s *Service) Window() calendar.Window {
	return s.window
}

func (s *Service) Appointments(ctx context.Context) ([]calendar.Appointment, error) {
	return s.store.Load(ctx)
}

// Check resolves availability without mutating the store.
func (s *Service) Check(ctx context.Context, req calendar.TimeRequest) (calendar.Resolution, error) {
	booked, err := s.store.Load(ctx)
	if err != nil {
		return calendar.Resolution{}, fmt.Errorf("failed to load appointments: %w", err)
	}

	return calendar.Resolve(req, booked, s.window), nil
}

// Book appends an appointment for the request iff the interval is
// still free. The check and the append run under one mutex, so the
// returned resolution is authoritative for this booking attempt.
func (s *Service) Book(ctx context.Context, req calendar.TimeRequest, summary string) (calendar.Resolution, error) {
	s.bookMu.Lock()
	defer s.bookMu.Unlock()

	booked, err := s.store.Load(ctx)
	if err != nil {
		return calendar.Resolution{}, fmt.Errorf("failed to load appointments: %w", err)
	}

	res := calendar.Resolve(req, booked, s.window)
	if !res.Available {
		return res, nil
	}

	end, err := req.End()
	if err != nil {
		return calendar.Resolution{Alternatives: make([]calendar.Slot, 0)}, nil
	}

	appt := calendar.Appointment{
		Date:    req.Date,
		Start:   req.Start,
		End:     end,
		Summary: summary,
	}

	if err = s.store.Append(ctx, appt); err != nil {
		return res, fmt.Errorf("failed to append appointment: %w", err)
	}

	slog.Info("Booked appointment",
		"date", appt.Date,
		"start", appt.Start,
		"end", appt.End)

	return res, nil
}
