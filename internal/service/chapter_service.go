package service

import (
	"context"
	"errors"
	"fmt"
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
	// ErrChapterNotFound indicates the chapter does not exist.
	ErrChapterNotFound = utils.NotFound("chapter not found")
	// ErrChapterExists indicates another chapter occupies the same class, unit and number.
	ErrChapterExists = utils.Conflict("chapter already exists at this position")
)

// ChapterService manages the chapter catalogue and the completion log.
type ChapterService interface {
	Create(ctx context.Context, actor ActivityActor, payload dto.ChapterCreateRequest) (dto.ChapterResponse, error)
	List(ctx context.Context, class string) ([]dto.ChapterResponse, error)
	Get(ctx context.Context, id uint) (dto.ChapterResponse, error)
	Complete(ctx context.Context, studentID, chapterID uint, payload dto.ChapterCompleteRequest) (dto.ChapterCompletionResponse, error)
}

type chapterService struct {
	chapters  repository.ChapterRepository
	students  repository.StudentRepository
	validator *validator.Validate
	activity  ActivityRecorder
	events    events.Publisher
	location  *time.Location
	logger    zerolog.Logger
	now       func() time.Time
}

// NewChapterService constructs the chapter service.
func NewChapterService(
	chapters repository.ChapterRepository,
	students repository.StudentRepository,
	validate *validator.Validate,
	activity ActivityRecorder,
	publisher events.Publisher,
	loc *time.Location,
	logger zerolog.Logger,
) ChapterService {
	if loc == nil {
		loc = time.Local
	}
	return &chapterService{
		chapters:  chapters,
		students:  students,
		validator: validate,
		activity:  activity,
		events:    publisher,
		location:  loc,
		logger:    logger.With().Str("component", "chapter_service").Logger(),
		now:       time.Now,
	}
}

func (s *chapterService) Create(ctx context.Context, actor ActivityActor, payload dto.ChapterCreateRequest) (dto.ChapterResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ChapterResponse{}, err
	}

	chapter := models.Chapter{
		Class:         strings.TrimSpace(payload.Class),
		Unit:          strings.TrimSpace(payload.Unit),
		ChapterNumber: payload.ChapterNumber,
		Title:         strings.TrimSpace(payload.Title),
		Content:       payload.Content,
		VideoURL:      strings.TrimSpace(payload.VideoURL),
		Questions:     datatypes.NewJSONSlice(dto.QuestionsToModels(payload.Questions)),
	}
	for i, question := range chapter.Questions {
		if err := question.Validate(); err != nil {
			return dto.ChapterResponse{}, utils.BadRequest(fmt.Sprintf("question %d: %s", i+1, err.Error()))
		}
	}

	exists, err := s.chapters.ExistsAtPosition(ctx, chapter.Class, chapter.Unit, chapter.ChapterNumber)
	if err != nil {
		return dto.ChapterResponse{}, err
	}
	if exists {
		return dto.ChapterResponse{}, ErrChapterExists
	}

	if err := s.chapters.Create(ctx, &chapter); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.ChapterResponse{}, ErrChapterExists
		}
		return dto.ChapterResponse{}, err
	}

	s.logger.Info().Uint("chapter_id", chapter.ID).Str("class", chapter.Class).Msg("chapter created")

	if s.activity != nil {
		entityID := chapter.ID
		if _, err := s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     events.ChapterCreated,
			EntityType: "chapter",
			EntityID:   &entityID,
			Metadata:   map[string]interface{}{"class": chapter.Class, "unit": chapter.Unit, "chapter_number": chapter.ChapterNumber},
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to record chapter activity")
		}
	}
	publish(ctx, s.events, s.logger, events.Event{Type: events.ChapterCreated, Grade: chapter.Class, EntityID: chapter.ID, ActorID: actor.ID})

	return dto.NewChapterResponse(chapter), nil
}

func (s *chapterService) List(ctx context.Context, class string) ([]dto.ChapterResponse, error) {
	chapters, err := s.chapters.ListByClass(ctx, class)
	if err != nil {
		return nil, err
	}
	return dto.NewChapterResponseSlice(chapters), nil
}

func (s *chapterService) Get(ctx context.Context, id uint) (dto.ChapterResponse, error) {
	chapter, err := s.find(ctx, id)
	if err != nil {
		return dto.ChapterResponse{}, err
	}
	return dto.NewChapterResponse(chapter), nil
}

// Complete appends a completion to the student's log and returns the updated current streak.
func (s *chapterService) Complete(ctx context.Context, studentID, chapterID uint, payload dto.ChapterCompleteRequest) (dto.ChapterCompletionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ChapterCompletionResponse{}, err
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ChapterCompletionResponse{}, ErrStudentNotFound
		}
		return dto.ChapterCompletionResponse{}, err
	}

	chapter, err := s.find(ctx, chapterID)
	if err != nil {
		return dto.ChapterCompletionResponse{}, err
	}
	// chapters of other classes are invisible to the student
	if chapter.Class != student.Class {
		return dto.ChapterCompletionResponse{}, ErrChapterNotFound
	}

	now := s.now()
	completion := models.ChapterCompletion{
		StudentID:   studentID,
		ChapterID:   chapter.ID,
		CompletedAt: now,
		QuizScore:   payload.QuizScore,
	}
	if err := s.chapters.RecordCompletion(ctx, &completion); err != nil {
		return dto.ChapterCompletionResponse{}, err
	}

	completions, err := s.students.ListCompletions(ctx, studentID)
	if err != nil {
		return dto.ChapterCompletionResponse{}, err
	}
	streak := BuildStreak(completionTimes(completions), now, s.location)

	s.logger.Info().Uint("student_id", studentID).Uint("chapter_id", chapter.ID).Int("streak", streak.CurrentStreak).Msg("chapter completed")
	publish(ctx, s.events, s.logger, events.Event{Type: events.ChapterCompleted, Grade: chapter.Class, EntityID: chapter.ID, ActorID: studentID})

	return dto.ChapterCompletionResponse{
		ChapterID:     chapter.ID,
		CompletedAt:   completion.CompletedAt,
		QuizScore:     completion.QuizScore,
		CurrentStreak: streak.CurrentStreak,
	}, nil
}

func (s *chapterService) find(ctx context.Context, id uint) (models.Chapter, error) {
	chapter, err := s.chapters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Chapter{}, ErrChapterNotFound
		}
		return models.Chapter{}, err
	}
	return chapter, nil
}
