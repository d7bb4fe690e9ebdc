package dto

import (
	"time"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// ChapterCreateRequest describes a new chapter.
type ChapterCreateRequest struct {
	Class         string            `json:"class" validate:"required,max=16"`
	Unit          string            `json:"unit" validate:"required,max=64"`
	ChapterNumber int               `json:"chapter_number" validate:"required,min=1"`
	Title         string            `json:"title" validate:"required,min=3"`
	Content       string            `json:"content"`
	VideoURL      string            `json:"video_url" validate:"omitempty,url"`
	Questions     []QuestionRequest `json:"questions" validate:"dive"`
}

// ChapterCompleteRequest records a chapter completion with the quiz result.
type ChapterCompleteRequest struct {
	QuizScore *float64 `json:"quiz_score" validate:"omitempty,min=0,max=100"`
}

// ChapterResponse serializes a chapter.
type ChapterResponse struct {
	ID            uint              `json:"id"`
	Class         string            `json:"class"`
	Unit          string            `json:"unit"`
	ChapterNumber int               `json:"chapter_number"`
	Title         string            `json:"title"`
	Content       string            `json:"content"`
	VideoURL      string            `json:"video_url,omitempty"`
	Questions     []models.Question `json:"questions"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ChapterCompletionResponse acknowledges a recorded completion.
type ChapterCompletionResponse struct {
	ChapterID     uint      `json:"chapter_id"`
	CompletedAt   time.Time `json:"completed_at"`
	QuizScore     *float64  `json:"quiz_score"`
	CurrentStreak int       `json:"current_streak"`
}

// NewChapterResponse converts a chapter model.
func NewChapterResponse(model models.Chapter) ChapterResponse {
	questions := []models.Question(model.Questions)
	if questions == nil {
		questions = []models.Question{}
	}
	return ChapterResponse{
		ID:            model.ID,
		Class:         model.Class,
		Unit:          model.Unit,
		ChapterNumber: model.ChapterNumber,
		Title:         model.Title,
		Content:       model.Content,
		VideoURL:      model.VideoURL,
		Questions:     questions,
		CreatedAt:     model.CreatedAt,
	}
}

// NewChapterResponseSlice converts chapter models.
func NewChapterResponseSlice(chapters []models.Chapter) []ChapterResponse {
	responses := make([]ChapterResponse, 0, len(chapters))
	for _, chapter := range chapters {
		responses = append(responses, NewChapterResponse(chapter))
	}
	return responses
}
