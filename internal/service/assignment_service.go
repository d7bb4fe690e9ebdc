package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/events"
	"github.com/noah-isme/gema-lms-api/internal/models"
	"github.com/noah-isme/gema-lms-api/internal/repository"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

var (
	// ErrAssignmentNotFound indicates the requested assignment does not exist.
	ErrAssignmentNotFound = utils.NotFound("assignment not found")
	// ErrGradeNotFound indicates the grade label is not registered.
	ErrGradeNotFound = utils.NotFound("grade not found")
	// ErrUnknownGrade rejects writes that reference an unregistered grade.
	ErrUnknownGrade = utils.BadRequest("grade does not exist")
	// ErrInvalidWindow rejects an end date that is not after the start date.
	ErrInvalidWindow = utils.BadRequest("end date must be after start date")
	// ErrMissingContent rejects assignments without the content their type requires.
	ErrMissingContent = utils.BadRequest("content for the selected content type is required")
)

// AssignmentService exposes assignment domain use cases.
type AssignmentService interface {
	List(ctx context.Context, query dto.AssignmentListQuery) (dto.AssignmentListResponse, error)
	ListByGrade(ctx context.Context, grade string) ([]dto.AssignmentResponse, error)
	Get(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	Create(ctx context.Context, actor ActivityActor, payload dto.AssignmentCreateRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error)
	Update(ctx context.Context, actor ActivityActor, id uint, payload dto.AssignmentUpdateRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, actor ActivityActor, id uint) error
}

type assignmentService struct {
	repo      repository.AssignmentRepository
	grades    repository.GradeRepository
	validator *validator.Validate
	uploader  FileUploader
	activity  ActivityRecorder
	events    events.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAssignmentService builds a new assignment service. uploader, activity and publisher
// may be nil.
func NewAssignmentService(
	repo repository.AssignmentRepository,
	grades repository.GradeRepository,
	validate *validator.Validate,
	uploader FileUploader,
	activity ActivityRecorder,
	publisher events.Publisher,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		repo:      repo,
		grades:    grades,
		validator: validate,
		uploader:  uploader,
		activity:  activity,
		events:    publisher,
		logger:    logger.With().Str("component", "assignment_service").Logger(),
		now:       time.Now,
	}
}

func (s *assignmentService) List(ctx context.Context, query dto.AssignmentListQuery) (dto.AssignmentListResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return dto.AssignmentListResponse{}, err
	}

	page := query.Page
	if page <= 0 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	assignments, total, err := s.repo.ListWithFilter(ctx, repository.AssignmentFilter{
		Grade:    query.Grade,
		Sort:     query.Sort,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return dto.AssignmentListResponse{}, err
	}

	return dto.AssignmentListResponse{
		Items:      dto.NewAssignmentResponseSlice(assignments, s.now()),
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *assignmentService) ListByGrade(ctx context.Context, grade string) ([]dto.AssignmentResponse, error) {
	grade = strings.TrimSpace(grade)
	exists, err := s.grades.Exists(ctx, grade)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrGradeNotFound
	}

	assignments, err := s.repo.ListByGrade(ctx, grade)
	if err != nil {
		return nil, err
	}
	return dto.NewAssignmentResponseSlice(assignments, s.now()), nil
}

func (s *assignmentService) Get(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.find(ctx, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment, s.now()), nil
}

func (s *assignmentService) Create(ctx context.Context, actor ActivityActor, payload dto.AssignmentCreateRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	startDate, err := parseTimestamp(payload.StartDate, "start date")
	if err != nil {
		return dto.AssignmentResponse{}, err
	}
	endDate, err := parseTimestamp(payload.EndDate, "end date")
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	grade := strings.TrimSpace(payload.Grade)
	exists, err := s.grades.Exists(ctx, grade)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}
	if !exists {
		return dto.AssignmentResponse{}, ErrUnknownGrade
	}

	assignment := models.Assignment{
		Grade:       grade,
		Title:       strings.TrimSpace(payload.Title),
		Description: strings.TrimSpace(payload.Description),
		ContentType: payload.ContentType,
		TextContent: payload.TextContent,
		VideoURL:    strings.TrimSpace(payload.VideoURL),
		PDFURL:      strings.TrimSpace(payload.PDFURL),
		StartDate:   startDate,
		EndDate:     endDate,
		Questions:   datatypes.NewJSONSlice(dto.QuestionsToModels(payload.Questions)),
		CreatedBy:   actor.ID,
	}

	if err := s.prepare(ctx, &assignment, file); err != nil {
		return dto.AssignmentResponse{}, err
	}

	if err := s.repo.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Str("grade", assignment.Grade).Msg("assignment created")
	s.afterWrite(ctx, actor, events.AssignmentCreated, assignment)

	return dto.NewAssignmentResponse(assignment, s.now()), nil
}

func (s *assignmentService) Update(ctx context.Context, actor ActivityActor, id uint, payload dto.AssignmentUpdateRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.find(ctx, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if payload.Title != nil {
		assignment.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Description != nil {
		assignment.Description = strings.TrimSpace(*payload.Description)
	}
	if payload.ContentType != nil {
		assignment.ContentType = *payload.ContentType
	}
	if payload.TextContent != nil {
		assignment.TextContent = *payload.TextContent
	}
	if payload.VideoURL != nil {
		assignment.VideoURL = strings.TrimSpace(*payload.VideoURL)
	}
	if payload.PDFURL != nil {
		assignment.PDFURL = strings.TrimSpace(*payload.PDFURL)
	}
	if payload.StartDate != nil {
		if assignment.StartDate, err = parseTimestamp(*payload.StartDate, "start date"); err != nil {
			return dto.AssignmentResponse{}, err
		}
	}
	if payload.EndDate != nil {
		if assignment.EndDate, err = parseTimestamp(*payload.EndDate, "end date"); err != nil {
			return dto.AssignmentResponse{}, err
		}
	}
	if payload.Questions != nil {
		assignment.Questions = datatypes.NewJSONSlice(dto.QuestionsToModels(*payload.Questions))
	}

	if err := s.prepare(ctx, &assignment, file); err != nil {
		return dto.AssignmentResponse{}, err
	}

	if err := s.repo.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Msg("assignment updated")
	s.afterWrite(ctx, actor, events.AssignmentUpdated, assignment)

	return dto.NewAssignmentResponse(assignment, s.now()), nil
}

func (s *assignmentService) Delete(ctx context.Context, actor ActivityActor, id uint) error {
	assignment, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	s.logger.Info().Uint("assignment_id", id).Msg("assignment deleted")
	s.afterWrite(ctx, actor, events.AssignmentDeleted, assignment)
	return nil
}

func (s *assignmentService) find(ctx context.Context, id uint) (models.Assignment, error) {
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}
	return assignment, nil
}

// prepare enforces the window, question shape and content invariants, uploading the
// attached PDF when one is provided.
func (s *assignmentService) prepare(ctx context.Context, assignment *models.Assignment, file *multipart.FileHeader) error {
	if !assignment.EndDate.After(assignment.StartDate) {
		return ErrInvalidWindow
	}

	for i, question := range assignment.Questions {
		if err := question.Validate(); err != nil {
			return utils.BadRequest(fmt.Sprintf("question %d: %s", i+1, err.Error()))
		}
	}

	if file != nil {
		if assignment.ContentType != models.ContentTypePDF {
			return utils.BadRequest("files can only be attached to pdf assignments")
		}
		url, err := uploadFile(ctx, s.uploader, file, "assignments/grade-"+assignment.Grade, "application/pdf")
		if err != nil {
			return err
		}
		assignment.PDFURL = url
	}

	assignment.ClearForeignContent()

	switch assignment.ContentType {
	case models.ContentTypeText:
		if strings.TrimSpace(assignment.TextContent) == "" {
			return ErrMissingContent
		}
	case models.ContentTypeVideo:
		if assignment.VideoURL == "" {
			return ErrMissingContent
		}
	case models.ContentTypePDF:
		if assignment.PDFURL == "" {
			return ErrMissingContent
		}
	}
	return nil
}

// afterWrite records the audit entry and publishes the change. Neither failure undoes the write.
func (s *assignmentService) afterWrite(ctx context.Context, actor ActivityActor, eventType string, assignment models.Assignment) {
	if s.activity != nil {
		entityID := assignment.ID
		_, err := s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     eventType,
			EntityType: "assignment",
			EntityID:   &entityID,
			Metadata: map[string]interface{}{
				"title":        assignment.Title,
				"grade":        assignment.Grade,
				"content_type": assignment.ContentType,
			},
		})
		if err != nil {
			s.logger.Warn().Err(err).Uint("assignment_id", assignment.ID).Msg("failed to record assignment activity")
		}
	}

	publish(ctx, s.events, s.logger, events.Event{
		Type:     eventType,
		Grade:    assignment.Grade,
		EntityID: assignment.ID,
		ActorID:  actor.ID,
	})
}

func publish(ctx context.Context, publisher events.Publisher, logger zerolog.Logger, event events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn().Err(err).Str("event", event.Type).Msg("failed to publish event")
	}
}

func parseTimestamp(value, field string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, utils.BadRequest(fmt.Sprintf("invalid %s", field))
	}
	return parsed, nil
}
