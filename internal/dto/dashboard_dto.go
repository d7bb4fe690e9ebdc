package dto

import "time"

// DashboardTotals holds plain entity counts.
type DashboardTotals struct {
	Students    int64 `json:"students"`
	Teachers    int64 `json:"teachers"`
	Chapters    int64 `json:"chapters"`
	Assignments int64 `json:"assignments"`
	Submissions int64 `json:"submissions"`
	Grades      int64 `json:"grades,omitempty"`
}

// DashboardTrends holds month-bucketed creation counts, oldest first.
type DashboardTrends struct {
	Students    []KeyCount `json:"students"`
	Assignments []KeyCount `json:"assignments"`
	Submissions []KeyCount `json:"submissions"`
}

// RecentStudent is a recently registered student.
type RecentStudent struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Class     string    `json:"class"`
	CreatedAt time.Time `json:"created_at"`
}

// RecentAssignment is a recently created assignment.
type RecentAssignment struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	Grade            string    `json:"grade"`
	CalculatedStatus string    `json:"calculated_status"`
	CreatedAt        time.Time `json:"created_at"`
}

// RecentSubmission is a recently received submission.
type RecentSubmission struct {
	ID              uint      `json:"id"`
	StudentName     string    `json:"student_name"`
	AssignmentTitle string    `json:"assignment_title"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// DashboardRecent lists the latest activity.
type DashboardRecent struct {
	Students    []RecentStudent    `json:"students"`
	Assignments []RecentAssignment `json:"assignments"`
	Submissions []RecentSubmission `json:"submissions"`
}

// AdminDashboardResponse is the school-wide overview.
type AdminDashboardResponse struct {
	Totals                   DashboardTotals `json:"totals"`
	StudentsByGrade          []KeyCount      `json:"students_by_grade"`
	SubmissionStatus         []KeyCount      `json:"submission_status"`
	AssignmentsByContentType []KeyCount      `json:"assignments_by_content_type"`
	AssignmentsByStatus      []KeyCount      `json:"assignments_by_status"`
	Trends                   DashboardTrends `json:"trends"`
	Recent                   DashboardRecent `json:"recent"`
	GeneratedAt              time.Time       `json:"generated_at"`
}

// TeacherDashboardResponse is the overview scoped to the teacher's grade.
type TeacherDashboardResponse struct {
	Grade                    string          `json:"grade"`
	Totals                   DashboardTotals `json:"totals"`
	SubmissionStatus         []KeyCount      `json:"submission_status"`
	AssignmentsByContentType []KeyCount      `json:"assignments_by_content_type"`
	AssignmentsByStatus      []KeyCount      `json:"assignments_by_status"`
	ChapterCompletions       []KeyCount      `json:"chapter_completions"`
	Trends                   DashboardTrends `json:"trends"`
	Recent                   DashboardRecent `json:"recent"`
	GeneratedAt              time.Time       `json:"generated_at"`
}
