package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/models"
	"github.com/noah-isme/gema-lms-api/internal/repository"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

const (
	defaultTodoLimit     = 10
	overviewDueLimit     = 5
	overviewChapterLimit = 3
	overviewRecentLimit  = 5
)

// ErrStudentNotFound is returned when the requesting student does not exist.
var ErrStudentNotFound = utils.NotFound("student not found")

// TodoService computes a student's progress views from assignments, submissions and the
// chapter completion log.
type TodoService interface {
	Streak(ctx context.Context, studentID uint) (dto.StreakResponse, error)
	Assignments(ctx context.Context, studentID uint, query dto.TodoAssignmentQuery) (dto.TodoAssignmentListResponse, error)
	Overview(ctx context.Context, studentID uint) (dto.TodoOverviewResponse, error)
}

type todoService struct {
	students    repository.StudentRepository
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	chapters    repository.ChapterRepository
	validator   *validator.Validate
	location    *time.Location
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewTodoService constructs the todo aggregator. Days are evaluated in loc.
func NewTodoService(
	students repository.StudentRepository,
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	chapters repository.ChapterRepository,
	validate *validator.Validate,
	loc *time.Location,
	logger zerolog.Logger,
) TodoService {
	if loc == nil {
		loc = time.Local
	}
	return &todoService{
		students:    students,
		assignments: assignments,
		submissions: submissions,
		chapters:    chapters,
		validator:   validate,
		location:    loc,
		logger:      logger.With().Str("component", "todo_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/gema-lms-api/internal/service/todo"),
		now:         time.Now,
	}
}

// studentSnapshot is everything the todo views are derived from.
type studentSnapshot struct {
	student     models.Student
	assignments []models.Assignment
	submissions []models.Submission
	completions []models.ChapterCompletion
	chapters    []models.Chapter
}

type snapshotParts struct {
	assignments bool
	submissions bool
	completions bool
	chapters    bool
}

func (s *todoService) Streak(ctx context.Context, studentID uint) (dto.StreakResponse, error) {
	ctx, span := s.tracer.Start(ctx, "todo.streak", trace.WithAttributes(attribute.Int("student.id", int(studentID))))
	defer span.End()

	snapshot, err := s.load(ctx, studentID, snapshotParts{completions: true})
	if err != nil {
		recordSpanError(span, err)
		return dto.StreakResponse{}, err
	}

	return BuildStreak(completionTimes(snapshot.completions), s.now(), s.location), nil
}

func (s *todoService) Assignments(ctx context.Context, studentID uint, query dto.TodoAssignmentQuery) (dto.TodoAssignmentListResponse, error) {
	if s.validator != nil {
		if err := s.validator.Struct(query); err != nil {
			return dto.TodoAssignmentListResponse{}, err
		}
	}

	ctx, span := s.tracer.Start(ctx, "todo.assignments", trace.WithAttributes(
		attribute.Int("student.id", int(studentID)),
		attribute.String("todo.status", query.Status),
	))
	defer span.End()

	snapshot, err := s.load(ctx, studentID, snapshotParts{assignments: true, submissions: true})
	if err != nil {
		recordSpanError(span, err)
		return dto.TodoAssignmentListResponse{}, err
	}

	buckets := classifyAssignments(snapshot.assignments, snapshot.submissions, s.now(), s.location)

	var items []dto.TodoAssignmentItem
	switch query.Status {
	case dto.TodoStatusPending:
		items = buckets.upcoming
	case dto.TodoStatusSubmitted:
		items = buckets.submitted
	case dto.TodoStatusOverdue:
		items = buckets.overdue
	default:
		items = buckets.all()
	}

	return paginateTodo(items, query.Page, query.Limit), nil
}

func (s *todoService) Overview(ctx context.Context, studentID uint) (dto.TodoOverviewResponse, error) {
	ctx, span := s.tracer.Start(ctx, "todo.overview", trace.WithAttributes(attribute.Int("student.id", int(studentID))))
	defer span.End()

	snapshot, err := s.load(ctx, studentID, snapshotParts{assignments: true, submissions: true, completions: true, chapters: true})
	if err != nil {
		recordSpanError(span, err)
		return dto.TodoOverviewResponse{}, err
	}

	now := s.now()
	today := truncateToDay(now, s.location)
	buckets := classifyAssignments(snapshot.assignments, snapshot.submissions, now, s.location)

	completed := make(map[uint]models.ChapterCompletion, len(snapshot.completions))
	for _, completion := range snapshot.completions {
		completed[completion.ChapterID] = completion
	}

	chaptersByID := make(map[uint]models.Chapter, len(snapshot.chapters))
	upcomingChapters := make([]dto.TodoChapterItem, 0, overviewChapterLimit)
	for _, chapter := range snapshot.chapters {
		chaptersByID[chapter.ID] = chapter
		if _, done := completed[chapter.ID]; done || len(upcomingChapters) == overviewChapterLimit {
			continue
		}
		upcomingChapters = append(upcomingChapters, newTodoChapterItem(chapter, nil))
	}

	todayChapters := make([]dto.TodoChapterItem, 0)
	for _, completion := range snapshot.completions {
		if !truncateToDay(completion.CompletedAt, s.location).Equal(today) {
			continue
		}
		chapter := chaptersByID[completion.ChapterID]
		chapter.ID = completion.ChapterID
		todayChapters = append(todayChapters, newTodoChapterItem(chapter, &completion))
	}

	recent := make([]dto.TodoSubmissionItem, 0, overviewRecentLimit)
	for _, submission := range snapshot.submissions {
		if len(recent) == overviewRecentLimit {
			break
		}
		recent = append(recent, dto.TodoSubmissionItem{
			ID:              submission.ID,
			AssignmentID:    submission.AssignmentID,
			AssignmentTitle: submission.Assignment.Title,
			Status:          submission.Status,
			Score:           submission.Score,
			SubmittedAt:     submission.CreatedAt,
		})
	}

	due := buckets.upcoming
	if len(due) > overviewDueLimit {
		due = due[:overviewDueLimit]
	}

	stats := dto.TodoStats{
		TotalAssignments:  len(snapshot.assignments),
		Submitted:         len(buckets.submitted),
		Pending:           len(buckets.upcoming),
		Overdue:           len(buckets.overdue),
		CompletedChapters: len(completed),
		TotalChapters:     len(snapshot.chapters),
		AverageScore:      averageScore(snapshot.submissions),
	}

	return dto.TodoOverviewResponse{
		Streak:            BuildStreak(completionTimes(snapshot.completions), now, s.location),
		Stats:             stats,
		DueAssignments:    due,
		UpcomingChapters:  upcomingChapters,
		TodayChapters:     todayChapters,
		RecentSubmissions: recent,
	}, nil
}

// load resolves the student and then fetches the requested parts concurrently. Any
// failure aborts the whole snapshot.
func (s *todoService) load(ctx context.Context, studentID uint, parts snapshotParts) (studentSnapshot, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return studentSnapshot{}, ErrStudentNotFound
		}
		return studentSnapshot{}, err
	}

	snapshot := studentSnapshot{student: student}
	group, groupCtx := errgroup.WithContext(ctx)

	if parts.assignments {
		group.Go(func() error {
			assignments, err := s.assignments.ListByGrade(groupCtx, student.Class)
			snapshot.assignments = assignments
			return err
		})
	}
	if parts.submissions {
		group.Go(func() error {
			submissions, err := s.submissions.List(groupCtx, repository.SubmissionFilter{StudentID: &student.ID})
			snapshot.submissions = submissions
			return err
		})
	}
	if parts.completions {
		group.Go(func() error {
			completions, err := s.students.ListCompletions(groupCtx, student.ID)
			snapshot.completions = completions
			return err
		})
	}
	if parts.chapters {
		group.Go(func() error {
			chapters, err := s.chapters.ListByClass(groupCtx, student.Class)
			snapshot.chapters = chapters
			return err
		})
	}

	if err := group.Wait(); err != nil {
		s.logger.Error().Err(err).Uint("student_id", studentID).Msg("failed to load student progress")
		return studentSnapshot{}, err
	}
	return snapshot, nil
}

type assignmentBuckets struct {
	upcoming  []dto.TodoAssignmentItem
	overdue   []dto.TodoAssignmentItem
	submitted []dto.TodoAssignmentItem
}

// all lists upcoming work first, then overdue, then submitted.
func (b assignmentBuckets) all() []dto.TodoAssignmentItem {
	items := make([]dto.TodoAssignmentItem, 0, len(b.upcoming)+len(b.overdue)+len(b.submitted))
	items = append(items, b.upcoming...)
	items = append(items, b.overdue...)
	return append(items, b.submitted...)
}

// classifyAssignments splits assignments by submission state and deadline. submissions
// are expected newest first; when a student has several for one assignment the newest wins.
func classifyAssignments(assignments []models.Assignment, submissions []models.Submission, now time.Time, loc *time.Location) assignmentBuckets {
	today := truncateToDay(now, loc)

	byAssignment := make(map[uint]models.Submission, len(submissions))
	for _, submission := range submissions {
		if _, seen := byAssignment[submission.AssignmentID]; !seen {
			byAssignment[submission.AssignmentID] = submission
		}
	}

	buckets := assignmentBuckets{
		upcoming:  []dto.TodoAssignmentItem{},
		overdue:   []dto.TodoAssignmentItem{},
		submitted: []dto.TodoAssignmentItem{},
	}
	for _, assignment := range assignments {
		item := dto.TodoAssignmentItem{
			ID:          assignment.ID,
			Title:       assignment.Title,
			Description: assignment.Description,
			ContentType: assignment.ContentType,
			StartDate:   assignment.StartDate,
			EndDate:     assignment.EndDate,
			Status:      assignment.CalculatedStatus(now),
			DaysLeft:    daysBetween(today, truncateToDay(assignment.EndDate, loc)),
			IsPastDue:   assignment.IsPastDue(today),
		}

		if submission, ok := byAssignment[assignment.ID]; ok {
			submissionID := submission.ID
			item.IsSubmitted = true
			item.SubmissionID = &submissionID
			item.Score = submission.Score
			buckets.submitted = append(buckets.submitted, item)
			continue
		}

		if item.IsPastDue {
			buckets.overdue = append(buckets.overdue, item)
		} else {
			buckets.upcoming = append(buckets.upcoming, item)
		}
	}

	sort.SliceStable(buckets.upcoming, func(i, j int) bool {
		return buckets.upcoming[i].EndDate.Before(buckets.upcoming[j].EndDate)
	})
	sort.SliceStable(buckets.overdue, func(i, j int) bool {
		return buckets.overdue[i].EndDate.After(buckets.overdue[j].EndDate)
	})
	sort.SliceStable(buckets.submitted, func(i, j int) bool {
		return buckets.submitted[i].EndDate.After(buckets.submitted[j].EndDate)
	})

	return buckets
}

func paginateTodo(items []dto.TodoAssignmentItem, page, limit int) dto.TodoAssignmentListResponse {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultTodoLimit
	}

	total := len(items)
	response := dto.TodoAssignmentListResponse{
		Data:       []dto.TodoAssignmentItem{},
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		Page:       page,
		Limit:      limit,
	}

	start := (page - 1) * limit
	if start >= total {
		return response
	}
	end := start + limit
	if end > total {
		end = total
	}
	response.Data = append(response.Data, items[start:end]...)
	return response
}

func newTodoChapterItem(chapter models.Chapter, completion *models.ChapterCompletion) dto.TodoChapterItem {
	item := dto.TodoChapterItem{
		ID:            chapter.ID,
		Title:         chapter.Title,
		Unit:          chapter.Unit,
		ChapterNumber: chapter.ChapterNumber,
	}
	if completion != nil {
		completedAt := completion.CompletedAt
		item.CompletedAt = &completedAt
		item.QuizScore = completion.QuizScore
	}
	return item
}

func completionTimes(completions []models.ChapterCompletion) []time.Time {
	times := make([]time.Time, 0, len(completions))
	for _, completion := range completions {
		times = append(times, completion.CompletedAt)
	}
	return times
}

func averageScore(submissions []models.Submission) *float64 {
	var total float64
	var count int
	for _, submission := range submissions {
		if submission.Score == nil {
			continue
		}
		total += *submission.Score
		count++
	}
	if count == 0 {
		return nil
	}
	avg := math.Round(total/float64(count)*100) / 100
	return &avg
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
