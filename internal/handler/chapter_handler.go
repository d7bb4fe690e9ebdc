package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/service"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// ChapterHandler exposes chapter catalogue and completion endpoints.
type ChapterHandler struct {
	service service.ChapterService
	logger  zerolog.Logger
}

// NewChapterHandler constructs the handler.
func NewChapterHandler(service service.ChapterService, logger zerolog.Logger) *ChapterHandler {
	return &ChapterHandler{
		service: service,
		logger:  logger.With().Str("component", "chapter_handler").Logger(),
	}
}

// Register attaches chapter routes.
func (h *ChapterHandler) Register(router fiber.Router, staffOnly, studentOnly fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", staffOnly, h.create)
	router.Post("/:id/complete", studentOnly, h.complete)
}

func (h *ChapterHandler) list(c *fiber.Ctx) error {
	chapters, err := h.service.List(c.UserContext(), strings.TrimSpace(c.Query("class")))
	if err != nil {
		return err
	}
	return utils.SendSuccess(c, "chapters retrieved", chapters)
}

func (h *ChapterHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	chapter, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return utils.SendSuccess(c, "chapter retrieved", chapter)
}

func (h *ChapterHandler) create(c *fiber.Ctx) error {
	var payload dto.ChapterCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return errInvalidPayload
	}

	chapter, err := h.service.Create(c.UserContext(), activityActorFromContext(c), payload)
	if err != nil {
		return err
	}
	return utils.SendCreated(c, "chapter created", chapter)
}

func (h *ChapterHandler) complete(c *fiber.Ctx) error {
	studentID, err := requireUserID(c)
	if err != nil {
		return err
	}
	chapterID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var payload dto.ChapterCompleteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return errInvalidPayload
		}
	}

	completion, err := h.service.Complete(c.UserContext(), studentID, chapterID, payload)
	if err != nil {
		return err
	}

	requestLogger(h.logger, c).Info().
		Uint("student_id", studentID).
		Uint("chapter_id", chapterID).
		Int("current_streak", completion.CurrentStreak).
		Msg("chapter completed")
	return utils.SendCreated(c, "chapter completed", completion)
}
