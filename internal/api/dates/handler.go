package dates

import (
	"legal-assistant/config"
	"legal-assistant/internal/core/dates"
	"legal-assistant/pkg/apperror"
	"legal-assistant/pkg/apperror/status"

	"github.com/gofiber/fiber/v3"
)

type extractRequest struct {
	Text string `json:"text"`
}

// HandleExtract returns the labelled dates found in the posted text.
func HandleExtract(c fiber.Ctx) error {
	var req extractRequest
	if err := c.Bind().JSON(&req); err != nil {
		return apperror.BadRequest(config.ModuleDates, c, status.InvalidRequestBody, "invalid request body")
	}
	found := dates.Extract(req.Text)
	if found == nil {
		found = []dates.ImportantDate{}
	}
	return apperror.Success(config.ModuleDates, c, apperror.FiberSuccessMessage{
		Code:    status.OK,
		Message: "ok",
		Data:    found,
	})
}

func RegisterRoutes(r fiber.Router) {
	r.Post("/dates/extract", HandleExtract)
}
