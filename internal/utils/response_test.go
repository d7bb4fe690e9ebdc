package utils_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-lms-api/internal/utils"
)

func TestSendSuccessWithMetaIncludesMetaAndDefaults(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		data := map[string]string{"hello": "world"}
		meta := map[string]int{"page": 1}
		return utils.SendSuccessWithMeta(c, "", data, meta)
	})

	resp := performRequest(t, app, http.MethodGet, "/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool                   `json:"success"`
		Message string                 `json:"message"`
		Data    map[string]string      `json:"data"`
		Meta    map[string]interface{} `json:"meta"`
	}
	decode(t, resp, &payload)

	require.True(t, payload.Success)
	require.Equal(t, "success", payload.Message)
	require.Equal(t, "world", payload.Data["hello"])
	require.Equal(t, float64(1), payload.Meta["page"])
}

func TestSendErrorOmitsData(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusConflict, "grade already exists")
	})

	resp := performRequest(t, app, http.MethodGet, "/")
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var payload map[string]interface{}
	decode(t, resp, &payload)

	require.Equal(t, false, payload["success"])
	require.Equal(t, "grade already exists", payload["message"])
	require.NotContains(t, payload, "data")
}

func TestAPIErrorStatusSurvivesWrapping(t *testing.T) {
	sentinel := utils.NotFound("student not found")
	wrapped := fmt.Errorf("load overview: %w", sentinel)

	require.ErrorIs(t, wrapped, sentinel)
	require.Equal(t, http.StatusNotFound, utils.StatusOf(wrapped))
	require.Equal(t, http.StatusInternalServerError, utils.StatusOf(errors.New("boom")))

	internal := utils.Internal("query failed", errors.New("connection reset"))
	require.Equal(t, "query failed: connection reset", internal.Error())
}

func performRequest(t *testing.T, app *fiber.App, method, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
