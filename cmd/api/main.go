package main

import (
	"context"
	"fmt"
	"time"

	"legal-assistant/config"
	"legal-assistant/internal/api/calendar"
	"legal-assistant/internal/api/dates"
	"legal-assistant/internal/api/healthcheck"
	ingestapi "legal-assistant/internal/api/ingest"
	corecalendar "legal-assistant/internal/core/calendar"
	coreingest "legal-assistant/internal/core/ingest"
	"legal-assistant/internal/core/knowledge"
	"legal-assistant/internal/core/mailbox"
	"legal-assistant/internal/database"
	"legal-assistant/internal/middleware"
	"legal-assistant/internal/services/ingest"
	"legal-assistant/internal/storage"
	"legal-assistant/pkg/logger"

	"github.com/gofiber/fiber/v3"
)

func main() {
	cfg := config.Cfg

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.Migrate(ctx); err != nil {
		logger.Error(err, "database migrate error")
	}
	cancel()

	if cfg.Ingest.Sink == "milvus" {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		if err := waitForMilvus(ctx, cfg.Milvus.Address, 20, 5*time.Second, 2*time.Second); err != nil {
			logger.Error(err, "milvus connect error")
		}
		cancel()
	}

	sink, err := coreingest.NewSink(cfg)
	if err != nil {
		logger.Fatal(err, "ingest sink")
	}
	svc := ingest.NewService(cfg, ingest.Deps{
		Sink:      sink,
		Store:     storage.New(cfg),
		Repo:      ingest.NewRepository(),
		Mailbox:   mailbox.NewIMAP(cfg.Mail),
		Extractor: knowledge.NewExtractor(cfg.OpenAI),
	})
	inviter := corecalendar.NewInviter(corecalendar.NewSMTPMailer(cfg.Mail))

	app := fiber.New(fiber.Config{
		AppName:   cfg.Server.AppName,
		BodyLimit: cfg.Server.BodyLimit,
	})
	middleware.Register(app, cfg)

	// routes
	healthcheck.RegisterRoutes(app)
	ingestapi.RegisterRoutes(app, svc)
	dates.RegisterRoutes(app)
	calendar.RegisterRoutes(app, inviter)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.WithModule(config.ModuleServer).WithField("addr", addr).Info("listening")
	if err := app.Listen(addr); err != nil {
		logger.Error(err, "server error")
	}
}
