package apperror

import (
	"legal-assistant/config"
	"legal-assistant/pkg/apperror/status"
	"legal-assistant/pkg/logger"

	"github.com/gofiber/fiber/v3"
)

// WriteError logs a structured warning and returns a standardized JSON error
func WriteError(module config.Module, c fiber.Ctx, httpStatus int, code string, message string) error {
	return writeError(module, c, httpStatus, code, message, nil)
}

func writeError(module config.Module, c fiber.Ctx, httpStatus int, code string, message string, data any) error {
	logger.WithFields(logger.Fields{
		"module":        module,
		"status_code":   httpStatus,
		"error_code":    code,
		"error_message": message,
		"http_method":   c.Method(),
		"path":          c.Path(),
		"ip":            c.IP(),
		"request_id":    c.Get(fiber.HeaderXRequestID),
	}).Warnf("http error")

	return c.Status(httpStatus).JSON(ErrorResponse{
		Error:     message,
		ErrorCode: code,
		Data:      data,
	})
}

// BadRequest writes a 400 with the given client error code.
func BadRequest(module config.Module, c fiber.Ctx, code status.ErrorCode, message string) error {
	return WriteError(module, c, fiber.StatusBadRequest, formatCode(code), message)
}

// NotFound writes a 404 with the given client error code.
func NotFound(module config.Module, c fiber.Ctx, code status.ErrorCode, message string) error {
	return WriteError(module, c, fiber.StatusNotFound, formatCode(code), message)
}

// InternalError maps err to a response: client-range coded errors become 400,
// everything else 500.
func InternalError(module config.Module, c fiber.Ctx, err error) error {
	return InternalErrorWithData(module, c, err, nil)
}

// InternalErrorWithData is InternalError with a payload in the envelope's
// data field, e.g. the partial report of a failed ingestion.
func InternalErrorWithData(module config.Module, c fiber.Ctx, err error, data any) error {
	code := CodeOf(err)
	if code.IsClient() {
		return writeError(module, c, fiber.StatusBadRequest, formatCode(code), err.Error(), data)
	}
	return writeError(module, c, fiber.StatusInternalServerError, formatCode(code), err.Error(), data)
}

// Success writes a standardized JSON success response
func Success(module config.Module, c fiber.Ctx, response FiberSuccessMessage) error {
	if response.TrackingID == "" {
		response.TrackingID = c.Get(fiber.HeaderXRequestID)
	}
	return c.Status(fiber.StatusOK).JSON(response)
}
