package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// GroupCount is one row of a grouped count query.
type GroupCount struct {
	GroupKey   string
	GroupCount int64
}

// DashboardRepository supplies grouped counts and timestamps for the admin and teacher
// dashboards. Every method takes a grade; an empty grade means the whole school.
type DashboardRepository interface {
	CountStudents(ctx context.Context, grade string) (int64, error)
	CountTeachers(ctx context.Context, grade string) (int64, error)
	CountChapters(ctx context.Context, grade string) (int64, error)
	CountAssignments(ctx context.Context, grade string) (int64, error)
	CountSubmissions(ctx context.Context, grade string) (int64, error)
	CountGrades(ctx context.Context) (int64, error)
	StudentsByGrade(ctx context.Context) ([]GroupCount, error)
	SubmissionsByStatus(ctx context.Context, grade string) ([]GroupCount, error)
	AssignmentsByContentType(ctx context.Context, grade string) ([]GroupCount, error)
	ChapterCompletions(ctx context.Context, grade string, limit int) ([]GroupCount, error)
	AssignmentWindows(ctx context.Context, grade string) ([]models.Assignment, error)
	StudentCreatedAt(ctx context.Context, grade string) ([]time.Time, error)
	AssignmentCreatedAt(ctx context.Context, grade string) ([]time.Time, error)
	SubmissionCreatedAt(ctx context.Context, grade string) ([]time.Time, error)
	RecentStudents(ctx context.Context, grade string, limit int) ([]models.Student, error)
	RecentAssignments(ctx context.Context, grade string, limit int) ([]models.Assignment, error)
	RecentSubmissions(ctx context.Context, grade string, limit int) ([]models.Submission, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository constructs the dashboard repository.
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) students(ctx context.Context, grade string) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Student{})
	if grade != "" {
		query = query.Where("students.class = ?", grade)
	}
	return query
}

func (r *dashboardRepository) assignments(ctx context.Context, grade string) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Assignment{})
	if grade != "" {
		query = query.Where("assignments.grade = ?", grade)
	}
	return query
}

func (r *dashboardRepository) submissions(ctx context.Context, grade string) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Submission{})
	if grade != "" {
		query = query.
			Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
			Where("assignments.grade = ?", grade)
	}
	return query
}

func (r *dashboardRepository) CountStudents(ctx context.Context, grade string) (int64, error) {
	var count int64
	err := r.students(ctx, grade).Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountTeachers(ctx context.Context, grade string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Teacher{})
	if grade != "" {
		query = query.Where("grade = ?", grade)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountChapters(ctx context.Context, grade string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Chapter{})
	if grade != "" {
		query = query.Where("class = ?", grade)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountAssignments(ctx context.Context, grade string) (int64, error) {
	var count int64
	err := r.assignments(ctx, grade).Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountSubmissions(ctx context.Context, grade string) (int64, error) {
	var count int64
	err := r.submissions(ctx, grade).Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountGrades(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Grade{}).Count(&count).Error
	return count, err
}

func (r *dashboardRepository) StudentsByGrade(ctx context.Context) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.students(ctx, "").
		Select("students.class AS group_key, COUNT(*) AS group_count").
		Group("students.class").
		Order("students.class ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepository) SubmissionsByStatus(ctx context.Context, grade string) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.submissions(ctx, grade).
		Select("submissions.status AS group_key, COUNT(*) AS group_count").
		Group("submissions.status").
		Order("submissions.status ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepository) AssignmentsByContentType(ctx context.Context, grade string) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.assignments(ctx, grade).
		Select("assignments.content_type AS group_key, COUNT(*) AS group_count").
		Group("assignments.content_type").
		Order("assignments.content_type ASC").
		Scan(&rows).Error
	return rows, err
}

// ChapterCompletions counts distinct completing students per chapter, most completed first.
func (r *dashboardRepository) ChapterCompletions(ctx context.Context, grade string, limit int) ([]GroupCount, error) {
	query := r.db.WithContext(ctx).
		Table(models.ChapterCompletedStudentsTable+" AS ccs").
		Select("chapters.title AS group_key, COUNT(*) AS group_count").
		Joins("JOIN chapters ON chapters.id = ccs.chapter_id")
	if grade != "" {
		query = query.Where("chapters.class = ?", grade)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []GroupCount
	err := query.
		Group("chapters.id, chapters.title").
		Order("group_count DESC").
		Order("chapters.title ASC").
		Scan(&rows).Error
	return rows, err
}

// AssignmentWindows loads only the columns needed to derive assignment status.
func (r *dashboardRepository) AssignmentWindows(ctx context.Context, grade string) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.assignments(ctx, grade).
		Select("assignments.id", "assignments.start_date", "assignments.end_date").
		Find(&assignments).Error
	return assignments, err
}

func (r *dashboardRepository) StudentCreatedAt(ctx context.Context, grade string) ([]time.Time, error) {
	var timestamps []time.Time
	err := r.students(ctx, grade).Pluck("students.created_at", &timestamps).Error
	return timestamps, err
}

func (r *dashboardRepository) AssignmentCreatedAt(ctx context.Context, grade string) ([]time.Time, error) {
	var timestamps []time.Time
	err := r.assignments(ctx, grade).Pluck("assignments.created_at", &timestamps).Error
	return timestamps, err
}

func (r *dashboardRepository) SubmissionCreatedAt(ctx context.Context, grade string) ([]time.Time, error) {
	var timestamps []time.Time
	err := r.submissions(ctx, grade).Pluck("submissions.created_at", &timestamps).Error
	return timestamps, err
}

func (r *dashboardRepository) RecentStudents(ctx context.Context, grade string, limit int) ([]models.Student, error) {
	var students []models.Student
	err := r.students(ctx, grade).Order("students.created_at DESC").Limit(limit).Find(&students).Error
	return students, err
}

func (r *dashboardRepository) RecentAssignments(ctx context.Context, grade string, limit int) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.assignments(ctx, grade).Order("assignments.created_at DESC").Limit(limit).Find(&assignments).Error
	return assignments, err
}

func (r *dashboardRepository) RecentSubmissions(ctx context.Context, grade string, limit int) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.submissions(ctx, grade).
		Preload("Assignment").
		Preload("Student").
		Order("submissions.created_at DESC").
		Limit(limit).
		Find(&submissions).Error
	return submissions, err
}
