package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/service"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// AssignmentHandler manages assignment endpoints.
type AssignmentHandler struct {
	service service.AssignmentService
	logger  zerolog.Logger
}

// NewAssignmentHandler constructs a new handler.
func NewAssignmentHandler(service service.AssignmentService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register binds assignment routes. Mutations go through the staff guard.
func (h *AssignmentHandler) Register(router fiber.Router, staffOnly fiber.Handler) {
	router.Get("", h.list)
	router.Get("/grade/:grade", h.listByGrade)
	router.Get("/:id", h.get)
	router.Post("", staffOnly, h.create)
	router.Put("/:id", staffOnly, h.update)
	router.Delete("/:id", staffOnly, h.delete)
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return err
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return err
	}

	query := dto.AssignmentListQuery{
		Grade:    strings.TrimSpace(c.Query("grade")),
		Sort:     strings.TrimSpace(c.Query("sort")),
		Page:     page,
		PageSize: pageSize,
	}

	result, err := h.service.List(c.UserContext(), query)
	if err != nil {
		return err
	}

	return utils.SendSuccessWithMeta(c, "assignments retrieved", result.Items, result.Pagination)
}

func (h *AssignmentHandler) listByGrade(c *fiber.Ctx) error {
	items, err := h.service.ListByGrade(c.UserContext(), c.Params("grade"))
	if err != nil {
		return err
	}

	return utils.SendSuccess(c, "assignments retrieved", items)
}

func (h *AssignmentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	assignment, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return utils.SendSuccess(c, "assignment retrieved", assignment)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	var payload dto.AssignmentCreateRequest
	file, err := parseBody(c, &payload, "questions", &payload.Questions)
	if err != nil {
		return err
	}

	assignment, err := h.service.Create(c.UserContext(), activityActorFromContext(c), payload, file)
	if err != nil {
		return err
	}

	requestLogger(h.logger, c).Info().Uint("assignment_id", assignment.ID).Msg("assignment created")
	return utils.SendCreated(c, "assignment created", assignment)
}

func (h *AssignmentHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var payload dto.AssignmentUpdateRequest
	file, err := parseBody(c, &payload, "questions", &payload.Questions)
	if err != nil {
		return err
	}

	assignment, err := h.service.Update(c.UserContext(), activityActorFromContext(c), id, payload, file)
	if err != nil {
		return err
	}

	return utils.SendSuccess(c, "assignment updated", assignment)
}

func (h *AssignmentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), activityActorFromContext(c), id); err != nil {
		return err
	}

	return utils.SendSuccess(c, "assignment deleted", fiber.Map{"id": id})
}
