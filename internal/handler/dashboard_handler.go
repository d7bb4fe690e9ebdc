package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-lms-api/internal/service"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// DashboardHandler serves the admin and teacher reporting dashboards.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches dashboard routes. Role checks are applied per route.
func (h *DashboardHandler) Register(router fiber.Router, adminOnly, teacherOnly fiber.Handler) {
	router.Get("/admin", adminOnly, h.admin)
	router.Get("/teacher", teacherOnly, h.teacher)
}

func (h *DashboardHandler) admin(c *fiber.Ctx) error {
	dashboard, cached, err := h.service.Admin(c.UserContext())
	if err != nil {
		return err
	}

	return utils.SendSuccessWithMeta(c, "admin dashboard retrieved", dashboard, fiber.Map{"cache_hit": cached})
}

func (h *DashboardHandler) teacher(c *fiber.Ctx) error {
	teacherID, err := requireUserID(c)
	if err != nil {
		return err
	}

	dashboard, cached, err := h.service.Teacher(c.UserContext(), teacherID)
	if err != nil {
		return err
	}

	requestLogger(h.logger, c).Debug().Uint("teacher_id", teacherID).Bool("cache_hit", cached).Msg("teacher dashboard served")
	return utils.SendSuccessWithMeta(c, "teacher dashboard retrieved", dashboard, fiber.Map{"cache_hit": cached})
}
