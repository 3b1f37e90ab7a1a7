package calendar

import (
	"context"
	"errors"
	"strings"

	"legal-assistant/config"
	"legal-assistant/internal/core/calendar"
	"legal-assistant/pkg/apperror"
	"legal-assistant/pkg/apperror/status"

	"github.com/gofiber/fiber/v3"
)

// Inviter sends calendar invites.
type Inviter interface {
	SendInvite(ctx context.Context, date, name string) (calendar.Result, error)
}

type inviteRequest struct {
	Date      string `json:"date"`
	EventName string `json:"event_name"`
}

func handleInvite(inviter Inviter) fiber.Handler {
	return func(c fiber.Ctx) error {
		var req inviteRequest
		if err := c.Bind().JSON(&req); err != nil {
			return apperror.BadRequest(config.ModuleCalendar, c, status.InvalidRequestBody, "invalid request body")
		}
		if strings.TrimSpace(req.Date) == "" || strings.TrimSpace(req.EventName) == "" {
			return apperror.BadRequest(config.ModuleCalendar, c, status.MissingParams, "date and event_name are required")
		}
		res, err := inviter.SendInvite(c.Context(), req.Date, req.EventName)
		switch {
		case errors.Is(err, calendar.ErrInvalidDate), errors.Is(err, calendar.ErrInvalidOffset):
			return apperror.BadRequest(config.ModuleCalendar, c, status.InvalidDate, err.Error())
		case err != nil:
			return apperror.InternalError(config.ModuleCalendar, c, status.New(status.CalendarSendFailed, err))
		}
		return apperror.Success(config.ModuleCalendar, c, apperror.FiberSuccessMessage{
			Code:    status.OK,
			Message: res.Message,
		})
	}
}

func RegisterRoutes(r fiber.Router, inviter Inviter) {
	r.Post("/calendar/invite", handleInvite(inviter))
}
