package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
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
	// ErrSubmissionNotFound indicates the submission does not exist.
	ErrSubmissionNotFound = utils.NotFound("submission not found")
	// ErrSubmissionExists indicates the student already submitted this assignment.
	ErrSubmissionExists = utils.Conflict("assignment already submitted")
	// ErrAssignmentLocked indicates the submission window has not opened.
	ErrAssignmentLocked = utils.BadRequest("assignment is not open yet")
	// ErrAssignmentEnded indicates the submission window has closed.
	ErrAssignmentEnded = utils.BadRequest("assignment has ended")
	// ErrSubmissionContent indicates the payload lacks the content its type requires.
	ErrSubmissionContent = utils.BadRequest("submission content is required")
	// ErrGradeOutsideScope indicates a teacher grading work outside their grade.
	ErrGradeOutsideScope = utils.Forbidden("submission belongs to another grade")
)

// SubmissionService handles student submissions and grading.
type SubmissionService interface {
	Submit(ctx context.Context, studentID uint, payload dto.SubmissionCreateRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error)
	ListMine(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error)
	Grade(ctx context.Context, actor ActivityActor, id uint, payload dto.SubmissionGradeRequest) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	students    repository.StudentRepository
	teachers    TeacherLookup
	validator   *validator.Validate
	uploader    FileUploader
	activity    ActivityRecorder
	events      events.Publisher
	sanitizer   *bluemonday.Policy
	strict      *bluemonday.Policy
	logger      zerolog.Logger
	now         func() time.Time
}

// SubmissionDependencies groups the collaborators of the submission service.
type SubmissionDependencies struct {
	Submissions repository.SubmissionRepository
	Assignments repository.AssignmentRepository
	Students    repository.StudentRepository
	Teachers    TeacherLookup
	Validator   *validator.Validate
	Uploader    FileUploader
	Activity    ActivityRecorder
	Events      events.Publisher
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(deps SubmissionDependencies, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: deps.Submissions,
		assignments: deps.Assignments,
		students:    deps.Students,
		teachers:    deps.Teachers,
		validator:   deps.Validator,
		uploader:    deps.Uploader,
		activity:    deps.Activity,
		events:      deps.Events,
		sanitizer:   bluemonday.UGCPolicy(),
		strict:      bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, studentID uint, payload dto.SubmissionCreateRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrStudentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}
	if assignment.Grade != student.Class {
		return dto.SubmissionResponse{}, ErrAssignmentNotFound
	}

	now := s.now()
	switch assignment.CalculatedStatus(now) {
	case models.AssignmentStatusLocked:
		return dto.SubmissionResponse{}, ErrAssignmentLocked
	case models.AssignmentStatusEnded:
		return dto.SubmissionResponse{}, ErrAssignmentEnded
	}

	if _, err := s.submissions.GetByAssignmentAndStudent(ctx, assignment.ID, studentID); err == nil {
		return dto.SubmissionResponse{}, ErrSubmissionExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		StudentID:      studentID,
		AssignmentID:   assignment.ID,
		SubmissionType: payload.SubmissionType,
		Status:         models.SubmissionStatusSubmitted,
	}

	switch payload.SubmissionType {
	case models.SubmissionTypeText:
		submission.TextContent = strings.TrimSpace(s.sanitizer.Sanitize(payload.TextContent))
		if submission.TextContent == "" {
			return dto.SubmissionResponse{}, ErrSubmissionContent
		}
	case models.SubmissionTypeVideo:
		submission.VideoURL = strings.TrimSpace(payload.VideoURL)
		if submission.VideoURL == "" {
			return dto.SubmissionResponse{}, ErrSubmissionContent
		}
	case models.SubmissionTypePDF:
		submission.PDFURL = strings.TrimSpace(payload.PDFURL)
		if file != nil {
			folder := fmt.Sprintf("submissions/assignment-%d", assignment.ID)
			if submission.PDFURL, err = uploadFile(ctx, s.uploader, file, folder, "application/pdf"); err != nil {
				return dto.SubmissionResponse{}, err
			}
		}
		if submission.PDFURL == "" {
			return dto.SubmissionResponse{}, ErrSubmissionContent
		}
	case models.SubmissionTypeQuiz:
		answers, score, err := scoreAnswers(assignment.Questions, payload.Answers)
		if err != nil {
			return dto.SubmissionResponse{}, err
		}
		submission.Answers = datatypes.NewJSONSlice(answers)
		submission.Score = &score
		submission.Status = models.SubmissionStatusGraded
		submission.GradedAt = &now
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.SubmissionResponse{}, ErrSubmissionExists
		}
		return dto.SubmissionResponse{}, err
	}

	submission.Assignment = assignment
	submission.Student = student

	s.logger.Info().Uint("submission_id", submission.ID).Uint("assignment_id", assignment.ID).Str("type", submission.SubmissionType).Msg("submission received")
	publish(ctx, s.events, s.logger, events.Event{Type: events.SubmissionCreated, Grade: assignment.Grade, EntityID: submission.ID, ActorID: studentID})

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) ListMine(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) Grade(ctx context.Context, actor ActivityActor, id uint, payload dto.SubmissionGradeRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if actor.Role == "teacher" && s.teachers != nil {
		grade, err := s.teachers.GradeOf(ctx, actor.ID)
		if err != nil {
			return dto.SubmissionResponse{}, err
		}
		if grade != submission.Assignment.Grade {
			return dto.SubmissionResponse{}, ErrGradeOutsideScope
		}
	}

	now := s.now()
	score := math.Round(*payload.Score*100) / 100
	graderID := actor.ID
	submission.Score = &score
	submission.Feedback = strings.TrimSpace(s.strict.Sanitize(payload.Feedback))
	submission.Status = models.SubmissionStatusGraded
	submission.GradedAt = &now
	submission.GradedBy = &graderID

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", submission.ID).Float64("score", score).Msg("submission graded")

	if s.activity != nil {
		entityID := submission.ID
		if _, err := s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     events.SubmissionGraded,
			EntityType: "submission",
			EntityID:   &entityID,
			Metadata:   map[string]interface{}{"score": score, "assignment_id": submission.AssignmentID},
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to record grading activity")
		}
	}
	publish(ctx, s.events, s.logger, events.Event{Type: events.SubmissionGraded, Grade: submission.Assignment.Grade, EntityID: submission.ID, ActorID: actor.ID})

	return dto.NewSubmissionResponse(submission), nil
}

// scoreAnswers copies each answered question into its answer and scores the quiz as the
// share of all questions answered correctly.
func scoreAnswers(questions []models.Question, answers []dto.SubmissionAnswerRequest) ([]models.SubmissionAnswer, float64, error) {
	if len(questions) == 0 {
		return nil, 0, utils.BadRequest("assignment has no quiz questions")
	}
	if len(answers) == 0 {
		return nil, 0, ErrSubmissionContent
	}

	seen := make(map[int]struct{}, len(answers))
	result := make([]models.SubmissionAnswer, 0, len(answers))
	correct := 0
	for _, answer := range answers {
		if answer.QuestionIndex < 0 || answer.QuestionIndex >= len(questions) {
			return nil, 0, utils.BadRequest(fmt.Sprintf("question index %d is out of range", answer.QuestionIndex))
		}
		if _, dup := seen[answer.QuestionIndex]; dup {
			return nil, 0, utils.BadRequest(fmt.Sprintf("question %d answered more than once", answer.QuestionIndex))
		}
		seen[answer.QuestionIndex] = struct{}{}

		question := questions[answer.QuestionIndex]
		isCorrect := question.IsCorrect(answer.SelectedAnswer)
		if isCorrect {
			correct++
		}
		result = append(result, models.SubmissionAnswer{
			Question:       question.Snapshot(),
			SelectedAnswer: strings.ToUpper(answer.SelectedAnswer),
			IsCorrect:      isCorrect,
		})
	}

	score := math.Round(float64(correct)/float64(len(questions))*10000) / 100
	return result, score, nil
}
