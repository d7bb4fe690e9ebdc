package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// AssignmentFilter describes pagination & grade scoping options.
type AssignmentFilter struct {
	Grade    string
	Sort     string
	Page     int
	PageSize int
}

// AssignmentRepository defines persistence operations for assignments.
type AssignmentRepository interface {
	ListByGrade(ctx context.Context, grade string) ([]models.Assignment, error)
	ListWithFilter(ctx context.Context, filter AssignmentFilter) ([]models.Assignment, int64, error)
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id uint) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

// ListByGrade returns every assignment visible to a grade ordered by due date.
func (r *assignmentRepository) ListByGrade(ctx context.Context, grade string) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.db.WithContext(ctx).
		Where("grade = ?", grade).
		Order("end_date ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) ListWithFilter(ctx context.Context, filter AssignmentFilter) ([]models.Assignment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Assignment{})

	if grade := strings.TrimSpace(filter.Grade); grade != "" {
		query = query.Where("grade = ?", grade)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(normalizeAssignmentSort(filter.Sort))

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var assignments []models.Assignment
	if err := query.Find(&assignments).Error; err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Assignment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func normalizeAssignmentSort(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case "-end_date", "end_date:desc", "due_date:desc":
		return "end_date DESC"
	case "start_date", "start_date:asc":
		return "start_date ASC"
	case "-start_date", "start_date:desc":
		return "start_date DESC"
	case "-created_at", "created_at:desc":
		return "created_at DESC"
	case "title", "title:asc":
		return "title ASC"
	default:
		return "end_date ASC"
	}
}
