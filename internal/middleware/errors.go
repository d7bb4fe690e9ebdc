package middleware

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// ErrorHandler converts errors returned by handlers into the JSON error envelope.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	log := logger.With().Str("component", "error_handler").Logger()

	return func(c *fiber.Ctx, err error) error {
		var apiErr *utils.APIError
		var validationErrs validator.ValidationErrors
		var fiberErr *fiber.Error

		switch {
		case errors.As(err, &apiErr):
			if apiErr.Status >= fiber.StatusInternalServerError {
				log.Error().Err(err).Str("correlation_id", GetCorrelationID(c)).Str("path", c.Path()).Msg("request failed")
			}
			return utils.SendError(c, apiErr.Status, apiErr.Message)
		case errors.As(err, &validationErrs):
			return utils.SendError(c, fiber.StatusBadRequest, describeValidation(validationErrs))
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "resource not found")
		case errors.As(err, &fiberErr):
			return utils.SendError(c, fiberErr.Code, fiberErr.Message)
		default:
			log.Error().Err(err).Str("correlation_id", GetCorrelationID(c)).Str("path", c.Path()).Msg("unhandled error")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}
}

func describeValidation(errs validator.ValidationErrors) string {
	fields := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		fields = append(fields, strings.ToLower(fieldErr.Field())+" failed "+fieldErr.Tag())
	}
	return "validation failed: " + strings.Join(fields, ", ")
}
