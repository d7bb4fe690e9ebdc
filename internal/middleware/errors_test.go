package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/utils"
)

func TestErrorHandlerMapsKnownErrors(t *testing.T) {
	type payload struct {
		Title string `validate:"required"`
	}
	validationErr := validator.New().Struct(payload{})
	require.Error(t, validationErr)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"api error", utils.Conflict("already exists"), fiber.StatusConflict},
		{"wrapped api error", fmt.Errorf("create: %w", utils.NotFound("missing")), fiber.StatusNotFound},
		{"validation", validationErr, fiber.StatusBadRequest},
		{"record not found", gorm.ErrRecordNotFound, fiber.StatusNotFound},
		{"fiber error", fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.Nop())})
			app.Use(CorrelationID())
			app.Get("/", func(c *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)

			var body utils.APIResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.False(t, body.Success)
			require.NotEmpty(t, body.Message)
		})
	}
}

func TestErrorHandlerHidesInternalDetails(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.Nop())})
	app.Get("/", func(c *fiber.Ctx) error { return errors.New("dial tcp 10.0.0.1: refused") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	var body utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "internal server error", body.Message)
}
