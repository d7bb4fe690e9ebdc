package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/service"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// ActivityHandler exposes activity log endpoints.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches activity log routes to the router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return err
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return err
	}
	actorID, err := parseQueryInt(c, "actor_id")
	if err != nil {
		return err
	}

	req := dto.ActivityListRequest{
		Page:       page,
		PageSize:   pageSize,
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}
	if actorID > 0 {
		req.ActorID = uint(actorID)
	}

	result, err := h.service.List(c.UserContext(), req)
	if err != nil {
		return err
	}

	return utils.SendSuccessWithMeta(c, "activity retrieved", result.Items, result.Pagination)
}

func (h *ActivityHandler) create(c *fiber.Ctx) error {
	var payload dto.ActivityCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return errInvalidPayload
	}

	entry, err := h.service.Create(c.UserContext(), activityActorFromContext(c), payload)
	if err != nil {
		return err
	}

	requestLogger(h.logger, c).Info().Str("action", entry.Action).Msg("activity recorded")
	return utils.SendCreated(c, "activity recorded", entry)
}
