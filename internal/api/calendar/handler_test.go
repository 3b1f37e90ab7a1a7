package calendar

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"legal-assistant/internal/core/calendar"
	"legal-assistant/pkg/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInviter struct {
	err error
}

func (f fakeInviter) SendInvite(_ context.Context, date, name string) (calendar.Result, error) {
	if f.err != nil {
		return calendar.Result{}, f.err
	}
	return calendar.Result{Message: "Calendar invite sent for " + name}, nil
}

func post(t *testing.T, inviter Inviter, body string) int {
	t.Helper()
	logger.SetOutput(io.Discard)
	app := fiber.New()
	RegisterRoutes(app, inviter)
	req := httptest.NewRequest(http.MethodPost, "/calendar/invite", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestHandleInvite(t *testing.T) {
	valid := `{"date":"2024-07-04","event_name":"Hearing"}`
	assert.Equal(t, http.StatusOK, post(t, fakeInviter{}, valid))
	assert.Equal(t, http.StatusBadRequest, post(t, fakeInviter{}, `{"date":"","event_name":"Hearing"}`))
	assert.Equal(t, http.StatusBadRequest, post(t, fakeInviter{err: calendar.ErrInvalidDate}, valid))
	assert.Equal(t, http.StatusInternalServerError, post(t, fakeInviter{err: errors.New("smtp down")}, valid))
}
