package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"bookbot/app/calendar"
	"bookbot/app/config"
	"bookbot/app/service/scheduler"

	"github.com/elliotchance/pie/v2"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

// MCPService exposes the calendar as MCP tools so external agents can
// check and book slots over the same scheduler the chat pipeline uses.
// Disabled unless mcp.addr is configured.
type MCPService struct {
	cfg          *config.Config
	schedulerSvc *scheduler.Service

	httpServer *mcpserver.StreamableHTTPServer
}

func NewMCP(di *do.Injector) (*MCPService, error) {
	s := &MCPService{
		cfg:          do.MustInvoke[*config.Config](di),
		schedulerSvc: do.MustInvoke[*scheduler.Service](di),
	}

	srv := mcpserver.NewMCPServer("bookbot", "0.1.0",
		mcpserver.WithToolCapabilities(false),
	)

	srv.AddTool(mcp.NewTool("check_availability",
		mcp.WithDescription("Check whether an appointment slot is free"),
		mcp.WithString("date", mcp.Required(), mcp.Description("Calendar date, YYYY-MM-DD")),
		mcp.WithString("start", mcp.Required(), mcp.Description("Start time, 24-hour HH:MM")),
		mcp.WithNumber("duration_minutes", mcp.Description("Duration in minutes, defaults to 60")),
	), s.handleCheckAvailability)

	srv.AddTool(mcp.NewTool("book_appointment",
		mcp.WithDescription("Book an appointment slot if it is still free"),
		mcp.WithString("date", mcp.Required(), mcp.Description("Calendar date, YYYY-MM-DD")),
		mcp.WithString("start", mcp.Required(), mcp.Description("Start time, 24-hour HH:MM")),
		mcp.WithNumber("duration_minutes", mcp.Description("Duration in minutes, defaults to 60")),
		mcp.WithString("summary", mcp.Description("What the appointment is about")),
	), s.handleBookAppointment)

	s.httpServer = mcpserver.NewStreamableHTTPServer(srv)

	return s, nil
}

func (s *MCPService) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("MCP server listening", "addr", s.cfg.MCP.Addr)

		return s.httpServer.Start(s.cfg.MCP.Addr)
	})

	g.Go(func() error {
		<-ctx.Done()

		return s.httpServer.Shutdown(context.Background())
	})

	return g.Wait()
}

func (s *MCPService) handleCheckAvailability(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := timeRequestFromArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.schedulerSvc.Check(ctx, req)
	if err != nil {
		return mcp.NewToolResultError("calendar is unavailable"), nil
	}

	if res.Available {
		return mcp.NewToolResultText(fmt.Sprintf("%s %s is available for %d minutes", req.Date, req.Start, req.DurationMin)), nil
	}

	return mcp.NewToolResultText(describeConflict(res)), nil
}

func (s *MCPService) handleBookAppointment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := timeRequestFromArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary := request.GetString("summary", "booked via MCP")

	res, err := s.schedulerSvc.Book(ctx, req, summary)
	if err != nil {
		return mcp.NewToolResultError("calendar is unavailable"), nil
	}

	if res.Available {
		return mcp.NewToolResultText(fmt.Sprintf("booked %s %s for %d minutes", req.Date, req.Start, req.DurationMin)), nil
	}

	return mcp.NewToolResultText(describeConflict(res)), nil
}

func timeRequestFromArgs(request mcp.CallToolRequest) (calendar.TimeRequest, error) {
	date, err := request.RequireString("date")
	if err != nil {
		return calendar.TimeRequest{}, err
	}

	start, err := request.RequireString("start")
	if err != nil {
		return calendar.TimeRequest{}, err
	}

	req := calendar.TimeRequest{
		Date:        date,
		Start:       start,
		DurationMin: request.GetInt("duration_minutes", 60),
	}

	if req.DurationMin <= 0 {
		return calendar.TimeRequest{}, fmt.Errorf("duration_minutes must be positive, got %d", req.DurationMin)
	}

	if _, _, err = req.Interval(); err != nil {
		return calendar.TimeRequest{}, err
	}

	return req, nil
}

func describeConflict(res calendar.Resolution) string {
	msg := "slot is not available"

	if res.Conflict != nil {
		msg = fmt.Sprintf("slot conflicts with %q at %s on %s", res.Conflict.Summary, res.Conflict.Start, res.Conflict.Date)
	}

	if len(res.Alternatives) > 0 {
		starts := pie.Map(res.Alternatives, func(s calendar.Slot) string {
			return s.Start + "-" + s.End
		})

		msg += "; free slots: " + strings.Join(starts, ", ")
	}

	return msg
}
