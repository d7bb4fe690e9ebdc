package handler

import (
	"encoding/json"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-lms-api/internal/middleware"
	"github.com/noah-isme/gema-lms-api/internal/service"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

var (
	errInvalidPayload    = utils.BadRequest("invalid payload")
	errInvalidIdentifier = utils.BadRequest("invalid identifier")
	errUnauthenticated   = utils.Unauthorized("authentication required")
)

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(c.Params(key)), 10, 64)
	if err != nil || value == 0 {
		return 0, errInvalidIdentifier
	}
	return uint(value), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, utils.BadRequest("invalid " + key)
	}
	return parsed, nil
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok {
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

func requireUserID(c *fiber.Ctx) (uint, error) {
	id := userIDFromContext(c)
	if id == 0 {
		return 0, errUnauthenticated
	}
	return id, nil
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

func activityActorFromContext(c *fiber.Ctx) service.ActivityActor {
	return service.ActivityActor{
		ID:   userIDFromContext(c),
		Role: userRoleFromContext(c),
	}
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

// parseBody decodes JSON or form bodies. For multipart requests the optional jsonField
// form value carries nested data as JSON and the "file" part is returned when present.
func parseBody(c *fiber.Ctx, target interface{}, jsonField string, nested interface{}) (*multipart.FileHeader, error) {
	if err := c.BodyParser(target); err != nil {
		return nil, errInvalidPayload
	}
	if !isMultipart(c) {
		return nil, nil
	}

	if jsonField != "" && nested != nil {
		if raw := strings.TrimSpace(c.FormValue(jsonField)); raw != "" {
			if err := json.Unmarshal([]byte(raw), nested); err != nil {
				return nil, utils.BadRequest("invalid " + jsonField)
			}
		}
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, errInvalidPayload
	}
	if files := form.File["file"]; len(files) > 0 {
		return files[0], nil
	}
	return nil, nil
}
