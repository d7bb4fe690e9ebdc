package models

import (
	"time"

	"gorm.io/datatypes"
)

// Assignment content types.
const (
	ContentTypeText  = "text"
	ContentTypeVideo = "video"
	ContentTypePDF   = "pdf"
)

// Assignment lifecycle states derived from the submission window.
const (
	AssignmentStatusLocked = "locked"
	AssignmentStatusActive = "active"
	AssignmentStatusEnded  = "ended"
)

// Assignment is a gradable task for one grade with a submission window and an embedded quiz.
type Assignment struct {
	ID          uint                         `gorm:"primaryKey" json:"id"`
	Grade       string                       `gorm:"size:16;not null;index" json:"grade"`
	Title       string                       `gorm:"size:255;not null" json:"title"`
	Description string                       `gorm:"type:text" json:"description"`
	ContentType string                       `gorm:"size:16;not null" json:"content_type"`
	TextContent string                       `gorm:"type:text" json:"text_content"`
	VideoURL    string                       `gorm:"size:512" json:"video_url"`
	PDFURL      string                       `gorm:"size:512" json:"pdf_url"`
	StartDate   time.Time                    `gorm:"not null" json:"start_date"`
	EndDate     time.Time                    `gorm:"not null;index" json:"end_date"`
	Questions   datatypes.JSONSlice[Question] `gorm:"type:json" json:"questions"`
	CreatedBy   uint                         `json:"created_by"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

// CalculatedStatus derives the lifecycle state from the window; it is never persisted.
func (a Assignment) CalculatedStatus(now time.Time) string {
	switch {
	case now.Before(a.StartDate):
		return AssignmentStatusLocked
	case now.After(a.EndDate):
		return AssignmentStatusEnded
	default:
		return AssignmentStatusActive
	}
}

// IsPastDue returns true when the assignment deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.EndDate)
}

// ClearForeignContent blanks the content fields that do not belong to the content type.
func (a *Assignment) ClearForeignContent() {
	if a.ContentType != ContentTypeText {
		a.TextContent = ""
	}
	if a.ContentType != ContentTypeVideo {
		a.VideoURL = ""
	}
	if a.ContentType != ContentTypePDF {
		a.PDFURL = ""
	}
}
