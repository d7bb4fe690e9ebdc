package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// SubmissionStatusSubmitted indicates the submission has been uploaded but not graded.
	SubmissionStatusSubmitted = "submitted"
	// SubmissionStatusGraded indicates the submission has been evaluated.
	SubmissionStatusGraded = "graded"
)

// Submission types accepted from students.
const (
	SubmissionTypeText  = "text"
	SubmissionTypeVideo = "video"
	SubmissionTypePDF   = "pdf"
	SubmissionTypeQuiz  = "quiz"
)

// SubmissionAnswer stores the question as it was when the student answered, together with the
// chosen label. The copy keeps historical grading stable when the assignment is edited later.
type SubmissionAnswer struct {
	Question       Question `json:"question"`
	SelectedAnswer string   `json:"selected_answer"`
	IsCorrect      bool     `json:"is_correct"`
}

// Submission links one student to one assignment.
type Submission struct {
	ID             uint                                 `gorm:"primaryKey" json:"id"`
	StudentID      uint                                 `gorm:"not null;uniqueIndex:idx_submission_student_assignment" json:"student_id"`
	AssignmentID   uint                                 `gorm:"not null;uniqueIndex:idx_submission_student_assignment;index" json:"assignment_id"`
	SubmissionType string                               `gorm:"size:16;not null" json:"submission_type"`
	TextContent    string                               `gorm:"type:text" json:"text_content"`
	VideoURL       string                               `gorm:"size:512" json:"video_url"`
	PDFURL         string                               `gorm:"size:512" json:"pdf_url"`
	Answers        datatypes.JSONSlice[SubmissionAnswer] `gorm:"type:json" json:"answers"`
	Score          *float64                             `json:"score"`
	Feedback       string                               `gorm:"type:text" json:"feedback"`
	Status         string                               `gorm:"size:32;not null;index" json:"status"`
	GradedAt       *time.Time                           `json:"graded_at"`
	GradedBy       *uint                                `json:"graded_by"`
	CreatedAt      time.Time                            `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time                            `json:"updated_at"`
	Assignment     Assignment                           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment"`
	Student        Student                              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

// IsGraded reports whether the submission has a final grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}
