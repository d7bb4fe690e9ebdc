package dto

import (
	"time"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// AssignmentCreateRequest describes the payload for creating a new assignment.
type AssignmentCreateRequest struct {
	Grade       string            `json:"grade" form:"grade" validate:"required,max=16"`
	Title       string            `json:"title" form:"title" validate:"required,min=3"`
	Description string            `json:"description" form:"description" validate:"omitempty,max=5000"`
	ContentType string            `json:"content_type" form:"content_type" validate:"required,oneof=text video pdf"`
	TextContent string            `json:"text_content" form:"text_content"`
	VideoURL    string            `json:"video_url" form:"video_url" validate:"omitempty,url"`
	PDFURL      string            `json:"pdf_url" form:"pdf_url" validate:"omitempty,url"`
	StartDate   string            `json:"start_date" form:"start_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate     string            `json:"end_date" form:"end_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Questions   []QuestionRequest `json:"questions" form:"-" validate:"dive"`
}

// AssignmentUpdateRequest describes the payload for updating an assignment.
type AssignmentUpdateRequest struct {
	Title       *string            `json:"title" form:"title" validate:"omitempty,min=3"`
	Description *string            `json:"description" form:"description" validate:"omitempty,max=5000"`
	ContentType *string            `json:"content_type" form:"content_type" validate:"omitempty,oneof=text video pdf"`
	TextContent *string            `json:"text_content" form:"text_content"`
	VideoURL    *string            `json:"video_url" form:"video_url" validate:"omitempty,url"`
	PDFURL      *string            `json:"pdf_url" form:"pdf_url" validate:"omitempty,url"`
	StartDate   *string            `json:"start_date" form:"start_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate     *string            `json:"end_date" form:"end_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Questions   *[]QuestionRequest `json:"questions" form:"-" validate:"omitempty,dive"`
}

// AssignmentListQuery filters the assignment catalogue.
type AssignmentListQuery struct {
	Grade    string
	Sort     string
	Page     int `validate:"min=0"`
	PageSize int `validate:"min=0,max=100"`
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	ID               uint              `json:"id"`
	Grade            string            `json:"grade"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	ContentType      string            `json:"content_type"`
	TextContent      string            `json:"text_content,omitempty"`
	VideoURL         string            `json:"video_url,omitempty"`
	PDFURL           string            `json:"pdf_url,omitempty"`
	StartDate        time.Time         `json:"start_date"`
	EndDate          time.Time         `json:"end_date"`
	CalculatedStatus string            `json:"calculated_status"`
	Questions        []models.Question `json:"questions"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// AssignmentListResponse wraps a paginated assignment list.
type AssignmentListResponse struct {
	Items      []AssignmentResponse `json:"items"`
	Pagination PaginationMeta       `json:"pagination"`
}

// NewAssignmentResponse converts a model into a DTO, deriving the status at now.
func NewAssignmentResponse(model models.Assignment, now time.Time) AssignmentResponse {
	questions := []models.Question(model.Questions)
	if questions == nil {
		questions = []models.Question{}
	}

	return AssignmentResponse{
		ID:               model.ID,
		Grade:            model.Grade,
		Title:            model.Title,
		Description:      model.Description,
		ContentType:      model.ContentType,
		TextContent:      model.TextContent,
		VideoURL:         model.VideoURL,
		PDFURL:           model.PDFURL,
		StartDate:        model.StartDate,
		EndDate:          model.EndDate,
		CalculatedStatus: model.CalculatedStatus(now),
		Questions:        questions,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment, now time.Time) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment, now))
	}

	return responses
}
