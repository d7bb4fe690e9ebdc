package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/service"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// SubmissionHandler manages submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler constructs a new handler.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register binds submission routes. submitLimit throttles new submissions per student.
func (h *SubmissionHandler) Register(router fiber.Router, staffOnly, studentOnly, submitLimit fiber.Handler) {
	if submitLimit == nil {
		submitLimit = func(c *fiber.Ctx) error { return c.Next() }
	}
	router.Post("", studentOnly, submitLimit, h.submit)
	router.Get("/me", studentOnly, h.listMine)
	router.Patch("/:id/grade", staffOnly, h.grade)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	studentID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var payload dto.SubmissionCreateRequest
	file, err := parseBody(c, &payload, "answers", &payload.Answers)
	if err != nil {
		return err
	}

	submission, err := h.service.Submit(c.UserContext(), studentID, payload, file)
	if err != nil {
		return err
	}

	requestLogger(h.logger, c).Info().
		Uint("submission_id", submission.ID).
		Uint("assignment_id", submission.AssignmentID).
		Msg("submission received")
	return utils.SendCreated(c, "submission created", submission)
}

func (h *SubmissionHandler) listMine(c *fiber.Ctx) error {
	studentID, err := requireUserID(c)
	if err != nil {
		return err
	}

	submissions, err := h.service.ListMine(c.UserContext(), studentID)
	if err != nil {
		return err
	}
	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *SubmissionHandler) grade(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var payload dto.SubmissionGradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return errInvalidPayload
	}

	submission, err := h.service.Grade(c.UserContext(), activityActorFromContext(c), id, payload)
	if err != nil {
		return err
	}
	return utils.SendSuccess(c, "submission graded", submission)
}
