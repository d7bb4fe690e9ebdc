package dto

import (
	"math"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginationMeta computes total pages as ceil(total / pageSize).
func NewPaginationMeta(page, pageSize int, total int64) PaginationMeta {
	meta := PaginationMeta{Page: page, PageSize: pageSize, TotalItems: total}
	if pageSize > 0 {
		meta.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return meta
}

// KeyCount is a normalized grouped count.
type KeyCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// QuestionOptionRequest is one labelled option in a question payload.
type QuestionOptionRequest struct {
	Label string `json:"label" validate:"required,oneof=A B C D"`
	Text  string `json:"text" validate:"required"`
}

// QuestionRequest is a multiple-choice question payload.
type QuestionRequest struct {
	Question      string                  `json:"question" validate:"required"`
	Options       []QuestionOptionRequest `json:"options" validate:"len=4,dive"`
	CorrectAnswer string                  `json:"correct_answer" validate:"required,oneof=A B C D"`
}

// ToModel converts the payload into the embedded question value.
func (q QuestionRequest) ToModel() models.Question {
	options := make([]models.QuestionOption, 0, len(q.Options))
	for _, option := range q.Options {
		options = append(options, models.QuestionOption{Label: option.Label, Text: option.Text})
	}
	return models.Question{Question: q.Question, Options: options, CorrectAnswer: q.CorrectAnswer}
}

// QuestionsToModels converts a payload slice.
func QuestionsToModels(questions []QuestionRequest) []models.Question {
	result := make([]models.Question, 0, len(questions))
	for _, question := range questions {
		result = append(result, question.ToModel())
	}
	return result
}
