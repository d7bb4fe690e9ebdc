package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/service"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// TodoHandler exposes the student todo and streak endpoints.
type TodoHandler struct {
	service service.TodoService
	logger  zerolog.Logger
}

// NewTodoHandler creates a new handler instance.
func NewTodoHandler(service service.TodoService, logger zerolog.Logger) *TodoHandler {
	return &TodoHandler{
		service: service,
		logger:  logger.With().Str("component", "todo_handler").Logger(),
	}
}

// Register attaches the todo endpoints.
func (h *TodoHandler) Register(router fiber.Router) {
	router.Get("/overview", h.overview)
	router.Get("/assignments", h.assignments)
	router.Get("/streak", h.streak)
}

func (h *TodoHandler) overview(c *fiber.Ctx) error {
	studentID, err := requireUserID(c)
	if err != nil {
		return err
	}

	overview, err := h.service.Overview(c.UserContext(), studentID)
	if err != nil {
		return err
	}

	return utils.SendSuccess(c, "todo overview retrieved", overview)
}

func (h *TodoHandler) assignments(c *fiber.Ctx) error {
	studentID, err := requireUserID(c)
	if err != nil {
		return err
	}

	page, err := parseQueryInt(c, "page")
	if err != nil {
		return err
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return err
	}

	query := dto.TodoAssignmentQuery{
		Status: strings.ToLower(strings.TrimSpace(c.Query("status"))),
		Page:   page,
		Limit:  limit,
	}

	list, err := h.service.Assignments(c.UserContext(), studentID, query)
	if err != nil {
		return err
	}

	return utils.SendSuccess(c, "todo assignments retrieved", list)
}

func (h *TodoHandler) streak(c *fiber.Ctx) error {
	studentID, err := requireUserID(c)
	if err != nil {
		return err
	}

	streak, err := h.service.Streak(c.UserContext(), studentID)
	if err != nil {
		return err
	}

	return utils.SendSuccess(c, "streak retrieved", streak)
}
