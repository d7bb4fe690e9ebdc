package models

import (
	"time"

	"gorm.io/datatypes"
)

// ChapterCompletedStudentsTable is the join table backing Chapter.CompletedStudents.
const ChapterCompletedStudentsTable = "chapter_completed_students"

// Chapter is a unit of instructional content for a class with an embedded quiz.
type Chapter struct {
	ID                uint                         `gorm:"primaryKey" json:"id"`
	Class             string                       `gorm:"size:16;not null;uniqueIndex:idx_chapter_position" json:"class"`
	Unit              string                       `gorm:"size:64;not null;uniqueIndex:idx_chapter_position" json:"unit"`
	ChapterNumber     int                          `gorm:"not null;uniqueIndex:idx_chapter_position" json:"chapter_number"`
	Title             string                       `gorm:"size:255;not null" json:"title"`
	Content           string                       `gorm:"type:text" json:"content"`
	VideoURL          string                       `gorm:"size:512" json:"video_url"`
	Questions         datatypes.JSONSlice[Question] `gorm:"type:json" json:"questions"`
	CompletedStudents []Student                    `gorm:"many2many:chapter_completed_students" json:"-"`
	CreatedAt         time.Time                    `json:"created_at"`
	UpdatedAt         time.Time                    `json:"updated_at"`
}
