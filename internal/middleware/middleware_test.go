package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"legal-assistant/config"
	"legal-assistant/pkg/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionLimiter(t *testing.T) {
	l := NewConnectionLimiter(1)
	assert.True(t, l.Acquire())
	assert.False(t, l.Acquire())
	l.Release()
	assert.True(t, l.Acquire())
}

func TestRegister(t *testing.T) {
	logger.SetOutput(io.Discard)
	app := fiber.New()
	Register(app, config.Cfg)
	app.Get("/ok", func(c fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/boom", func(c fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	resp, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
