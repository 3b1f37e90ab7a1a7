package ingest

import (
	"github.com/gofiber/fiber/v3"
)

func RegisterRoutes(r fiber.Router, svc Service) {
	h := NewHandler(svc)

	r.Post("/documents", h.HandleDocument)
	r.Get("/documents/:id", h.HandleGetDocument)
	r.Post("/email/sync", h.HandleEmailSync)
	r.Post("/knowledge", h.HandleKnowledge)
}
