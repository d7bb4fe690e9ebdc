package dto

import "time"

// Todo list status filters.
const (
	TodoStatusAll       = "all"
	TodoStatusPending   = "pending"
	TodoStatusSubmitted = "submitted"
	TodoStatusOverdue   = "overdue"
)

// CalendarDay is one day of the activity calendar.
type CalendarDay struct {
	Date        string `json:"date"`
	Count       int    `json:"count"`
	HasActivity bool   `json:"has_activity"`
}

// StreakResponse summarizes chapter completion streaks.
type StreakResponse struct {
	CurrentStreak    int           `json:"current_streak"`
	LongestStreak    int           `json:"longest_streak"`
	TotalCompletions int           `json:"total_completions"`
	Calendar         []CalendarDay `json:"calendar"`
	StreakMessage    string        `json:"streak_message"`
}

// TodoAssignmentQuery selects a page of classified assignments.
type TodoAssignmentQuery struct {
	Status string `validate:"omitempty,oneof=all pending submitted overdue"`
	Page   int    `validate:"min=0"`
	Limit  int    `validate:"min=0,max=100"`
}

// TodoAssignmentItem is an assignment classified for a student.
type TodoAssignmentItem struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ContentType  string    `json:"content_type"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Status       string    `json:"status"`
	DaysLeft     int       `json:"days_left"`
	IsSubmitted  bool      `json:"is_submitted"`
	IsPastDue    bool      `json:"is_past_due"`
	Score        *float64  `json:"score"`
	SubmissionID *uint     `json:"submission_id"`
}

// TodoAssignmentListResponse is a page of classified assignments.
type TodoAssignmentListResponse struct {
	Data       []TodoAssignmentItem `json:"data"`
	Total      int                  `json:"total"`
	TotalPages int                  `json:"total_pages"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
}

// TodoStats counts a student's workload.
type TodoStats struct {
	TotalAssignments  int      `json:"total_assignments"`
	Submitted         int      `json:"submitted"`
	Pending           int      `json:"pending"`
	Overdue           int      `json:"overdue"`
	CompletedChapters int      `json:"completed_chapters"`
	TotalChapters     int      `json:"total_chapters"`
	AverageScore      *float64 `json:"average_score"`
}

// TodoChapterItem is a chapter reference in the overview.
type TodoChapterItem struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Unit          string     `json:"unit"`
	ChapterNumber int        `json:"chapter_number"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	QuizScore     *float64   `json:"quiz_score,omitempty"`
}

// TodoSubmissionItem is a recent submission in the overview.
type TodoSubmissionItem struct {
	ID              uint      `json:"id"`
	AssignmentID    uint      `json:"assignment_id"`
	AssignmentTitle string    `json:"assignment_title"`
	Status          string    `json:"status"`
	Score           *float64  `json:"score"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// TodoOverviewResponse is the student's home screen payload.
type TodoOverviewResponse struct {
	Streak            StreakResponse       `json:"streak"`
	Stats             TodoStats            `json:"stats"`
	DueAssignments    []TodoAssignmentItem `json:"due_assignments"`
	UpcomingChapters  []TodoChapterItem    `json:"upcoming_chapters"`
	TodayChapters     []TodoChapterItem    `json:"today_chapters"`
	RecentSubmissions []TodoSubmissionItem `json:"recent_submissions"`
}
