package dates

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"legal-assistant/internal/core/dates"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleExtract(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app)

	req := httptest.NewRequest(http.MethodPost, "/dates/extract",
		strings.NewReader(`{"text":"Filing deadline: 2023-12-15, Effective date: 2023-11-01"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data []dates.ImportantDate `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []dates.ImportantDate{
		{Description: "Filing deadline", Date: "2023-12-15"},
		{Description: "Effective date", Date: "2023-11-01"},
	}, body.Data)
}
