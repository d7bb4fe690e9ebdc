package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// GradeRepository persists grade labels.
type GradeRepository interface {
	List(ctx context.Context) ([]models.Grade, error)
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, grade *models.Grade) error
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository constructs a grade repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) List(ctx context.Context) ([]models.Grade, error) {
	var grades []models.Grade
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&grades).Error; err != nil {
		return nil, err
	}
	return grades, nil
}

func (r *gradeRepository) Exists(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Grade{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}
