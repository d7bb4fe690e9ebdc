package dto

import (
	"time"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// SubmissionAnswerRequest selects an option for the question at QuestionIndex.
type SubmissionAnswerRequest struct {
	QuestionIndex  int    `json:"question_index" validate:"min=0"`
	SelectedAnswer string `json:"selected_answer" validate:"required,oneof=A B C D"`
}

// SubmissionCreateRequest captures a student's work for an assignment.
type SubmissionCreateRequest struct {
	AssignmentID   uint                      `json:"assignment_id" form:"assignment_id" validate:"required"`
	SubmissionType string                    `json:"submission_type" form:"submission_type" validate:"required,oneof=text video pdf quiz"`
	TextContent    string                    `json:"text_content" form:"text_content" validate:"omitempty,max=20000"`
	VideoURL       string                    `json:"video_url" form:"video_url" validate:"omitempty,url"`
	PDFURL         string                    `json:"pdf_url" form:"pdf_url" validate:"omitempty,url"`
	Answers        []SubmissionAnswerRequest `json:"answers" form:"-" validate:"dive"`
}

// SubmissionGradeRequest sets the score and feedback on a submission.
type SubmissionGradeRequest struct {
	Score    *float64 `json:"score" validate:"required,min=0,max=100"`
	Feedback string   `json:"feedback" validate:"omitempty,max=2000"`
}

// SubmissionResponse represents submission details returned to clients.
type SubmissionResponse struct {
	ID              uint                      `json:"id"`
	AssignmentID    uint                      `json:"assignment_id"`
	AssignmentTitle string                    `json:"assignment_title,omitempty"`
	StudentID       uint                      `json:"student_id"`
	StudentName     string                    `json:"student_name,omitempty"`
	SubmissionType  string                    `json:"submission_type"`
	TextContent     string                    `json:"text_content,omitempty"`
	VideoURL        string                    `json:"video_url,omitempty"`
	PDFURL          string                    `json:"pdf_url,omitempty"`
	Answers         []models.SubmissionAnswer `json:"answers"`
	Score           *float64                  `json:"score"`
	Feedback        string                    `json:"feedback"`
	Status          string                    `json:"status"`
	GradedAt        *time.Time                `json:"graded_at"`
	CreatedAt       time.Time                 `json:"created_at"`
}

// NewSubmissionResponse converts a submission model to a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	answers := []models.SubmissionAnswer(model.Answers)
	if answers == nil {
		answers = []models.SubmissionAnswer{}
	}

	return SubmissionResponse{
		ID:              model.ID,
		AssignmentID:    model.AssignmentID,
		AssignmentTitle: model.Assignment.Title,
		StudentID:       model.StudentID,
		StudentName:     model.Student.Name,
		SubmissionType:  model.SubmissionType,
		TextContent:     model.TextContent,
		VideoURL:        model.VideoURL,
		PDFURL:          model.PDFURL,
		Answers:         answers,
		Score:           model.Score,
		Feedback:        model.Feedback,
		Status:          model.Status,
		GradedAt:        model.GradedAt,
		CreatedAt:       model.CreatedAt,
	}
}

// NewSubmissionResponseSlice converts a slice of submissions.
func NewSubmissionResponseSlice(items []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewSubmissionResponse(item))
	}
	return responses
}
