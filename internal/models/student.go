package models

import "time"

// Student represents a learner enrolled in one grade.
type Student struct {
	ID                uint                `gorm:"primaryKey" json:"id"`
	Name              string              `gorm:"size:255;not null" json:"name"`
	Email             string              `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Class             string              `gorm:"size:16;not null;index" json:"class"`
	CompletedChapters []ChapterCompletion `gorm:"foreignKey:StudentID" json:"completed_chapters,omitempty"`
	CreatedAt         time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// ChapterCompletion is one entry of a student's append-only completion log.
type ChapterCompletion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   uint      `gorm:"not null;index" json:"student_id"`
	ChapterID   uint      `gorm:"not null;index" json:"chapter_id"`
	CompletedAt time.Time `gorm:"not null;index" json:"completed_at"`
	QuizScore   *float64  `json:"quiz_score"`
}

// Teacher is a staff member responsible for a single grade.
type Teacher struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Grade     string    `gorm:"size:16;not null;index" json:"grade"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Grade is a cohort label grouping students, teachers, chapters and assignments.
type Grade struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:16;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
