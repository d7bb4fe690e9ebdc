package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// StudentRepository provides access to student records and their completion log.
type StudentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Student, error)
	ListCompletions(ctx context.Context, studentID uint) ([]models.ChapterCompletion, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

// ListCompletions returns the student's completion log, oldest first.
func (r *studentRepository) ListCompletions(ctx context.Context, studentID uint) ([]models.ChapterCompletion, error) {
	var completions []models.ChapterCompletion
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("completed_at ASC").
		Find(&completions).Error; err != nil {
		return nil, err
	}

	return completions, nil
}
