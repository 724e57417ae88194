package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"bookbot/app/calendar"
	"bookbot/app/config"
	"bookbot/app/server"
	"bookbot/app/service/agent"
	"bookbot/app/service/scheduler"
	"bookbot/app/service/timeparse"
	"bookbot/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, func(_ *do.Injector) (calendar.Store, error) {
		return calendar.NewFileStore(cfg.Calendar.Path)
	})
	do.Provide(di, scheduler.New)
	do.Provide(di, timeparse.New)
	do.Provide(di, agent.New)
	do.Provide(di, server.New)
	do.Provide(di, server.NewMCP)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	if cfg.MCP.Addr != "" {
		go func() {
			if err := do.MustInvoke[*server.MCPService](di).Run(appCtx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("MCP server stopped", "error", err)
			}
		}()
	}

	if err := do.MustInvoke[*server.Service](di).Run(appCtx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("HTTP server stopped", "error", err)
	}
}
