package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/events"
	"github.com/noah-isme/gema-lms-api/internal/models"
	"github.com/noah-isme/gema-lms-api/internal/observability"
	"github.com/noah-isme/gema-lms-api/internal/repository"
)

const (
	adminDashboardCacheKey      = "dashboard:admin"
	teacherDashboardCachePrefix = "dashboard:teacher:"
	dashboardRecentLimit        = 5
	chapterCompletionLimit      = 5
)

// DashboardService builds the admin and teacher overview pages.
type DashboardService interface {
	Admin(ctx context.Context) (dto.AdminDashboardResponse, bool, error)
	Teacher(ctx context.Context, teacherID uint) (dto.TeacherDashboardResponse, bool, error)
	Invalidate(ctx context.Context, grade string)
	HandleEvent(ctx context.Context, event events.Event)
}

type dashboardService struct {
	repo     repository.DashboardRepository
	teachers TeacherLookup
	cache    *redis.Client
	cacheTTL time.Duration
	location *time.Location
	logger   zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewDashboardService constructs the dashboard aggregator. A nil cache disables caching.
func NewDashboardService(repo repository.DashboardRepository, teachers TeacherLookup, cache *redis.Client, ttl time.Duration, loc *time.Location, logger zerolog.Logger) DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &dashboardService{
		repo:     repo,
		teachers: teachers,
		cache:    cache,
		cacheTTL: ttl,
		location: loc,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
		tracer:   otel.Tracer("github.com/noah-isme/gema-lms-api/internal/service/dashboard"),
		now:      time.Now,
	}
}

// Admin returns the school-wide dashboard and whether it was served from cache.
func (s *dashboardService) Admin(ctx context.Context) (dto.AdminDashboardResponse, bool, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.admin")
	defer span.End()

	if cached, ok := readCache[dto.AdminDashboardResponse](ctx, s.cache, adminDashboardCacheKey, s.logger); ok {
		observability.DashboardCache().WithLabelValues("admin", "hit").Inc()
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, true, nil
	}
	observability.DashboardCache().WithLabelValues("admin", "miss").Inc()

	var response dto.AdminDashboardResponse
	var windows []models.Assignment
	var studentTimes, assignmentTimes, submissionTimes []time.Time
	var byGrade, byStatus, byContent []repository.GroupCount

	group, gctx := errgroup.WithContext(ctx)
	s.countInto(gctx, group, "", &response.Totals)
	group.Go(func() (err error) {
		response.Totals.Grades, err = s.repo.CountGrades(gctx)
		return err
	})
	group.Go(func() (err error) {
		byGrade, err = s.repo.StudentsByGrade(gctx)
		return err
	})
	s.groupsInto(gctx, group, "", &byStatus, &byContent, &windows)
	s.trendsInto(gctx, group, "", &studentTimes, &assignmentTimes, &submissionTimes)
	s.recentInto(gctx, group, "", &response.Recent)

	if err := group.Wait(); err != nil {
		recordSpanError(span, err)
		s.logger.Error().Err(err).Msg("failed to build admin dashboard")
		return dto.AdminDashboardResponse{}, false, err
	}

	now := s.now()
	response.StudentsByGrade = normalizeGroups(byGrade)
	response.SubmissionStatus = normalizeGroups(byStatus)
	response.AssignmentsByContentType = normalizeGroups(byContent)
	response.AssignmentsByStatus = statusGroups(windows, now)
	response.Trends = s.trends(studentTimes, assignmentTimes, submissionTimes)
	response.GeneratedAt = now.UTC()

	writeCache(ctx, s.cache, adminDashboardCacheKey, response, s.cacheTTL, s.logger)
	return response, false, nil
}

// Teacher returns the dashboard scoped to the teacher's grade and whether it was cached.
func (s *dashboardService) Teacher(ctx context.Context, teacherID uint) (dto.TeacherDashboardResponse, bool, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.teacher", trace.WithAttributes(attribute.Int("teacher.id", int(teacherID))))
	defer span.End()

	grade, err := s.teachers.GradeOf(ctx, teacherID)
	if err != nil {
		recordSpanError(span, err)
		return dto.TeacherDashboardResponse{}, false, err
	}
	span.SetAttributes(attribute.String("grade", grade))

	cacheKey := teacherDashboardCachePrefix + grade
	if cached, ok := readCache[dto.TeacherDashboardResponse](ctx, s.cache, cacheKey, s.logger); ok {
		observability.DashboardCache().WithLabelValues("teacher", "hit").Inc()
		return cached, true, nil
	}
	observability.DashboardCache().WithLabelValues("teacher", "miss").Inc()

	response := dto.TeacherDashboardResponse{Grade: grade}
	var windows []models.Assignment
	var studentTimes, assignmentTimes, submissionTimes []time.Time
	var byStatus, byContent, completions []repository.GroupCount

	group, gctx := errgroup.WithContext(ctx)
	s.countInto(gctx, group, grade, &response.Totals)
	s.groupsInto(gctx, group, grade, &byStatus, &byContent, &windows)
	group.Go(func() (err error) {
		completions, err = s.repo.ChapterCompletions(gctx, grade, chapterCompletionLimit)
		return err
	})
	s.trendsInto(gctx, group, grade, &studentTimes, &assignmentTimes, &submissionTimes)
	s.recentInto(gctx, group, grade, &response.Recent)

	if err := group.Wait(); err != nil {
		recordSpanError(span, err)
		s.logger.Error().Err(err).Str("grade", grade).Msg("failed to build teacher dashboard")
		return dto.TeacherDashboardResponse{}, false, err
	}

	now := s.now()
	response.SubmissionStatus = normalizeGroups(byStatus)
	response.AssignmentsByContentType = normalizeGroups(byContent)
	response.AssignmentsByStatus = statusGroups(windows, now)
	response.ChapterCompletions = normalizeGroups(completions)
	response.Trends = s.trends(studentTimes, assignmentTimes, submissionTimes)
	response.GeneratedAt = now.UTC()

	writeCache(ctx, s.cache, cacheKey, response, s.cacheTTL, s.logger)
	return response, false, nil
}

// Invalidate drops the admin dashboard and, when grade is set, that grade's teacher dashboard.
func (s *dashboardService) Invalidate(ctx context.Context, grade string) {
	keys := []string{adminDashboardCacheKey}
	if grade != "" {
		keys = append(keys, teacherDashboardCachePrefix+grade)
	}
	deleteCache(ctx, s.cache, s.logger, keys...)
}

// HandleEvent invalidates cached dashboards affected by a domain event.
func (s *dashboardService) HandleEvent(ctx context.Context, event events.Event) {
	s.logger.Debug().Str("event", event.Type).Str("grade", event.Grade).Msg("invalidating dashboards")
	s.Invalidate(ctx, event.Grade)
}

func (s *dashboardService) countInto(ctx context.Context, group *errgroup.Group, grade string, totals *dto.DashboardTotals) {
	group.Go(func() (err error) {
		totals.Students, err = s.repo.CountStudents(ctx, grade)
		return err
	})
	group.Go(func() (err error) {
		totals.Teachers, err = s.repo.CountTeachers(ctx, grade)
		return err
	})
	group.Go(func() (err error) {
		totals.Chapters, err = s.repo.CountChapters(ctx, grade)
		return err
	})
	group.Go(func() (err error) {
		totals.Assignments, err = s.repo.CountAssignments(ctx, grade)
		return err
	})
	group.Go(func() (err error) {
		totals.Submissions, err = s.repo.CountSubmissions(ctx, grade)
		return err
	})
}

func (s *dashboardService) groupsInto(ctx context.Context, group *errgroup.Group, grade string, byStatus, byContent *[]repository.GroupCount, windows *[]models.Assignment) {
	group.Go(func() (err error) {
		*byStatus, err = s.repo.SubmissionsByStatus(ctx, grade)
		return err
	})
	group.Go(func() (err error) {
		*byContent, err = s.repo.AssignmentsByContentType(ctx, grade)
		return err
	})
	group.Go(func() (err error) {
		*windows, err = s.repo.AssignmentWindows(ctx, grade)
		return err
	})
}

func (s *dashboardService) trendsInto(ctx context.Context, group *errgroup.Group, grade string, students, assignments, submissions *[]time.Time) {
	group.Go(func() (err error) {
		*students, err = s.repo.StudentCreatedAt(ctx, grade)
		return err
	})
	group.Go(func() (err error) {
		*assignments, err = s.repo.AssignmentCreatedAt(ctx, grade)
		return err
	})
	group.Go(func() (err error) {
		*submissions, err = s.repo.SubmissionCreatedAt(ctx, grade)
		return err
	})
}

func (s *dashboardService) recentInto(ctx context.Context, group *errgroup.Group, grade string, recent *dto.DashboardRecent) {
	group.Go(func() error {
		students, err := s.repo.RecentStudents(ctx, grade, dashboardRecentLimit)
		if err != nil {
			return err
		}
		recent.Students = make([]dto.RecentStudent, 0, len(students))
		for _, student := range students {
			recent.Students = append(recent.Students, dto.RecentStudent{
				ID:        student.ID,
				Name:      student.Name,
				Class:     student.Class,
				CreatedAt: student.CreatedAt,
			})
		}
		return nil
	})
	group.Go(func() error {
		assignments, err := s.repo.RecentAssignments(ctx, grade, dashboardRecentLimit)
		if err != nil {
			return err
		}
		now := s.now()
		recent.Assignments = make([]dto.RecentAssignment, 0, len(assignments))
		for _, assignment := range assignments {
			recent.Assignments = append(recent.Assignments, dto.RecentAssignment{
				ID:               assignment.ID,
				Title:            assignment.Title,
				Grade:            assignment.Grade,
				CalculatedStatus: assignment.CalculatedStatus(now),
				CreatedAt:        assignment.CreatedAt,
			})
		}
		return nil
	})
	group.Go(func() error {
		submissions, err := s.repo.RecentSubmissions(ctx, grade, dashboardRecentLimit)
		if err != nil {
			return err
		}
		recent.Submissions = make([]dto.RecentSubmission, 0, len(submissions))
		for _, submission := range submissions {
			recent.Submissions = append(recent.Submissions, dto.RecentSubmission{
				ID:              submission.ID,
				StudentName:     submission.Student.Name,
				AssignmentTitle: submission.Assignment.Title,
				Status:          submission.Status,
				CreatedAt:       submission.CreatedAt,
			})
		}
		return nil
	})
}

func (s *dashboardService) trends(students, assignments, submissions []time.Time) dto.DashboardTrends {
	return dto.DashboardTrends{
		Students:    BucketByMonth(students, s.location, trendMonths),
		Assignments: BucketByMonth(assignments, s.location, trendMonths),
		Submissions: BucketByMonth(submissions, s.location, trendMonths),
	}
}
