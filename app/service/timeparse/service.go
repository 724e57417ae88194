package timeparse

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bookbot/app/calendar"
	"bookbot/app/config"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
)

const defaultDurationMin = 60

var (
	dateRe     = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	clockRe    = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	durationRe = regexp.MustCompile(`(?i)(\d+)\s*(minutes|min|hours|hour)`)
)

// Service extracts a structured time request from free text. Explicit
// ISO date / HH:MM tokens win, then fuzzy natural language ("tomorrow
// at 3pm"). When an OpenAI model is configured it is asked first and
// any failure falls back to the rule-based path, so extraction never
// errors out: text without an actionable time just yields ok=false.
type Service struct {
	cfg    *config.Config
	fuzzy  *when.Parser
	client *openai.Client
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	fuzzy := when.New(nil)
	fuzzy.Add(en.All...)
	fuzzy.Add(common.All...)

	s := &Service{
		cfg:   cfg,
		fuzzy: fuzzy,
	}

	if cfg.OpenAI.Enabled() {
		s.client = createClient(cfg.OpenAI)
	}

	return s, nil
}

func (s *Service) Extract(ctx context.Context, text string, now time.Time) (calendar.TimeRequest, bool) {
	if s.client != nil {
		if req, ok := s.extractWithModel(ctx, text); ok {
			return req, true
		}
	}

	return s.extractWithRules(text, now)
}

func (s *Service) extractWithRules(text string, now time.Time) (calendar.TimeRequest, bool) {
	duration := extractDuration(text)

	date, hasDate := matchDate(text)
	clock, hasClock := matchClock(text)

	if hasDate && hasClock {
		return calendar.TimeRequest{Date: date, Start: clock, DurationMin: duration}, true
	}

	result, err := s.fuzzy.Parse(text, now)
	if err != nil {
		slog.Debug("fuzzy date parse failed", "error", err)
		result = nil
	}

	switch {
	case hasDate && result != nil:
		return calendar.TimeRequest{
			Date:        date,
			Start:       result.Time.Format(calendar.ClockLayout),
			DurationMin: duration,
		}, true
	case hasDate:
		return calendar.TimeRequest{Date: date, Start: "00:00", DurationMin: duration}, true
	case result != nil:
		return calendar.TimeRequest{
			Date:        result.Time.Format(calendar.DateLayout),
			Start:       result.Time.Format(calendar.ClockLayout),
			DurationMin: duration,
		}, true
	case hasClock:
		return calendar.TimeRequest{
			Date:        now.Format(calendar.DateLayout),
			Start:       clock,
			DurationMin: duration,
		}, true
	}

	return calendar.TimeRequest{}, false
}

func matchDate(text string) (string, bool) {
	token := dateRe.FindString(text)
	if token == "" {
		return "", false
	}

	if _, err := time.Parse(calendar.DateLayout, token); err != nil {
		return "", false
	}

	return token, true
}

func matchClock(text string) (string, bool) {
	token := clockRe.FindString(text)
	if token == "" {
		return "", false
	}

	t, err := time.Parse(calendar.ClockLayout, token)
	if err != nil {
		return "", false
	}

	return t.Format(calendar.ClockLayout), true
}

func extractDuration(text string) int {
	m := durationRe.FindStringSubmatch(text)
	if m == nil {
		return defaultDurationMin
	}

	val, err := strconv.Atoi(m[1])
	if err != nil || val <= 0 {
		return defaultDurationMin
	}

	if strings.Contains(strings.ToLower(m[2]), "hour") {
		return val * 60
	}

	return val
}
