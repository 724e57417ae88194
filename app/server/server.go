package server

import (
	"context"
	"log/slog"

	"bookbot/app/calendar"
	"bookbot/app/config"
	"bookbot/app/service/agent"
	"bookbot/app/service/scheduler"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	cfg          *config.Config
	agentSvc     *agent.Service
	schedulerSvc *scheduler.Service
	validate     *validator.Validate

	app *fiber.App
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg:          do.MustInvoke[*config.Config](di),
		agentSvc:     do.MustInvoke[*agent.Service](di),
		schedulerSvc: do.MustInvoke[*scheduler.Service](di),
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New())

	app.Post("/chat", s.handleChat)
	app.Get("/calendar", s.handleCalendar)
	app.Get("/health", s.handleHealth)

	s.app = app

	return s, nil
}

func (s *Service) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP server listening", "addr", s.cfg.Server.Addr)

		return s.app.Listen(s.cfg.Server.Addr)
	})

	g.Go(func() error {
		<-ctx.Done()

		return s.app.Shutdown()
	})

	return g.Wait()
}

func (s *Service) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "message is required")
	}

	result := s.agentSvc.Handle(c.UserContext(), req.Message)

	status := StatusSuccess
	if result.Intent == agent.IntentBook && !result.BookingConfirmed {
		status = StatusConflict
	}

	return c.JSON(ChatResponse{
		Response:         result.Response,
		Status:           status,
		AlternativeSlots: result.AvailableSlots,
	})
}

func (s *Service) handleCalendar(c *fiber.Ctx) error {
	appointments, err := s.schedulerSvc.Appointments(c.UserContext())
	if err != nil {
		slog.Error("failed to load appointments", "error", err)

		return fiber.NewError(fiber.StatusInternalServerError, "calendar is unavailable")
	}

	if appointments == nil {
		appointments = make([]calendar.Appointment, 0)
	}

	return c.JSON(appointments)
}

func (s *Service) handleHealth(c *fiber.Ctx) error {
	return c.SendString("ok")
}
