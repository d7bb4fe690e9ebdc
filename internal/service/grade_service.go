package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/events"
	"github.com/noah-isme/gema-lms-api/internal/models"
	"github.com/noah-isme/gema-lms-api/internal/repository"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// ErrGradeExists indicates the grade label is already registered.
var ErrGradeExists = utils.Conflict("grade already exists")

// GradeService manages the registered cohort labels.
type GradeService interface {
	List(ctx context.Context) ([]dto.GradeResponse, error)
	Create(ctx context.Context, actor ActivityActor, payload dto.GradeCreateRequest) (dto.GradeResponse, error)
}

type gradeService struct {
	repo      repository.GradeRepository
	validator *validator.Validate
	events    events.Publisher
	logger    zerolog.Logger
}

// NewGradeService constructs the grade service.
func NewGradeService(repo repository.GradeRepository, validate *validator.Validate, publisher events.Publisher, logger zerolog.Logger) GradeService {
	return &gradeService{
		repo:      repo,
		validator: validate,
		events:    publisher,
		logger:    logger.With().Str("component", "grade_service").Logger(),
	}
}

func (s *gradeService) List(ctx context.Context) ([]dto.GradeResponse, error) {
	grades, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GradeResponse, 0, len(grades))
	for _, grade := range grades {
		responses = append(responses, dto.NewGradeResponse(grade))
	}
	return responses, nil
}

func (s *gradeService) Create(ctx context.Context, actor ActivityActor, payload dto.GradeCreateRequest) (dto.GradeResponse, error) {
	payload.Name = strings.TrimSpace(payload.Name)
	if err := s.validator.Struct(payload); err != nil {
		return dto.GradeResponse{}, err
	}

	exists, err := s.repo.Exists(ctx, payload.Name)
	if err != nil {
		return dto.GradeResponse{}, err
	}
	if exists {
		return dto.GradeResponse{}, ErrGradeExists
	}

	grade := models.Grade{Name: payload.Name}
	if err := s.repo.Create(ctx, &grade); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.GradeResponse{}, ErrGradeExists
		}
		return dto.GradeResponse{}, err
	}

	s.logger.Info().Str("grade", grade.Name).Msg("grade created")
	publish(ctx, s.events, s.logger, events.Event{Type: events.GradeCreated, Grade: grade.Name, EntityID: grade.ID, ActorID: actor.ID})

	return dto.NewGradeResponse(grade), nil
}
