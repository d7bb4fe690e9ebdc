package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/service"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// GradeHandler exposes the grade catalogue.
type GradeHandler struct {
	service service.GradeService
}

// NewGradeHandler constructs the handler.
func NewGradeHandler(service service.GradeService) *GradeHandler {
	return &GradeHandler{service: service}
}

// Register attaches grade routes.
func (h *GradeHandler) Register(router fiber.Router, adminOnly fiber.Handler) {
	router.Get("", h.list)
	router.Post("", adminOnly, h.create)
}

func (h *GradeHandler) list(c *fiber.Ctx) error {
	grades, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return utils.SendSuccess(c, "grades retrieved", grades)
}

func (h *GradeHandler) create(c *fiber.Ctx) error {
	var payload dto.GradeCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return errInvalidPayload
	}

	grade, err := h.service.Create(c.UserContext(), activityActorFromContext(c), payload)
	if err != nil {
		return err
	}
	return utils.SendCreated(c, "grade created", grade)
}
