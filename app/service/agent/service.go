package agent

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bookbot/app/calendar"
	"bookbot/app/service/scheduler"
	"bookbot/app/service/timeparse"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

// Service runs the request pipeline: classify -> extract time ->
// check availability -> book -> respond. The stage order is fixed,
// nothing branches back, and every stage degrades instead of failing,
// so a run always ends with a composed response.
type Service struct {
	schedulerSvc *scheduler.Service
	parserSvc    *timeparse.Service

	stages []stageFn
}

type stageFn func(ctx context.Context, req *Request)

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		schedulerSvc: do.MustInvoke[*scheduler.Service](di),
		parserSvc:    do.MustInvoke[*timeparse.Service](di),
	}

	s.stages = []stageFn{
		s.classify,
		s.extractTime,
		s.checkAvailability,
		s.book,
		s.respond,
	}

	return s, nil
}

func (s *Service) Handle(ctx context.Context, message string) *Request {
	req := &Request{
		RawInput:       message,
		AvailableSlots: make([]calendar.Slot, 0),
	}

	for _, stage := range s.stages {
		stage(ctx, req)
	}

	return req
}

func (s *Service) classify(_ context.Context, req *Request) {
	text := strings.ToLower(req.RawInput)

	contains := func(keyword string) bool {
		return strings.Contains(text, keyword)
	}

	switch {
	case pie.Any(bookingKeywords, contains):
		req.Intent = IntentBook
	case pie.Any(availabilityKeywords, contains):
		req.Intent = IntentQuery
	default:
		req.Intent = IntentOther
	}
}

func (s *Service) extractTime(ctx context.Context, req *Request) {
	extracted, ok := s.parserSvc.Extract(ctx, req.RawInput, time.Now())
	if !ok {
		slog.Debug("no actionable time in request", "input", req.RawInput)
		return
	}

	req.TimeRequest = &extracted
}

func (s *Service) checkAvailability(ctx context.Context, req *Request) {
	if req.TimeRequest == nil {
		return
	}

	res, err := s.schedulerSvc.Check(ctx, *req.TimeRequest)
	if err != nil {
		req.StorageFailed = true
		slog.Error("availability check failed", "error", err)

		return
	}

	if res.Available {
		return
	}

	req.Conflict = res.Conflict
	req.AvailableSlots = res.Alternatives
}

func (s *Service) book(ctx context.Context, req *Request) {
	if req.Intent != IntentBook || req.TimeRequest == nil || req.StorageFailed {
		return
	}

	res, err := s.schedulerSvc.Book(ctx, *req.TimeRequest, req.RawInput)
	if err != nil {
		req.StorageFailed = true
		slog.Error("booking failed", "error", err)

		return
	}

	if res.Available {
		req.BookingConfirmed = true
		req.Conflict = nil
		req.AvailableSlots = make([]calendar.Slot, 0)

		return
	}

	// The resolution under the booking lock is authoritative: a
	// conflict that appeared since the availability stage shows up
	// here.
	req.Conflict = res.Conflict
	req.AvailableSlots = res.Alternatives
}

func (s *Service) respond(_ context.Context, req *Request) {
	req.Response = Compose(req)
}
