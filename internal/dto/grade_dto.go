package dto

import (
	"time"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// GradeCreateRequest registers a new cohort label.
type GradeCreateRequest struct {
	Name string `json:"name" validate:"required,max=16,alphanum"`
}

// GradeResponse serializes a grade.
type GradeResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewGradeResponse converts a grade model.
func NewGradeResponse(model models.Grade) GradeResponse {
	return GradeResponse{ID: model.ID, Name: model.Name, CreatedAt: model.CreatedAt}
}
