package service

import (
	"sort"
	"time"

	"github.com/noah-isme/gema-lms-api/internal/dto"
)

const (
	calendarDays = 30
	dayLayout    = "2006-01-02"
)

var streakMessages = []struct {
	min     int
	message string
}{
	{30, "Legendary streak!"},
	{14, "Unstoppable learner!"},
	{7, "One week strong!"},
	{3, "You're on fire!"},
	{1, "Good start! Keep it going!"},
	{0, "Start your streak today!"},
}

// StreakMessage returns the motivational message for a current streak length.
func StreakMessage(streak int) string {
	for _, tier := range streakMessages {
		if streak >= tier.min {
			return tier.message
		}
	}
	return streakMessages[len(streakMessages)-1].message
}

// BuildStreak derives streak figures and the activity calendar from completion
// timestamps. Days are calendar days in loc; the current streak counts back from
// today and is zero when today has no completion.
func BuildStreak(completions []time.Time, now time.Time, loc *time.Location) dto.StreakResponse {
	if loc == nil {
		loc = time.Local
	}

	today := truncateToDay(now, loc)
	perDay := make(map[string]int, len(completions))
	days := make([]time.Time, 0, len(completions))
	for _, completedAt := range completions {
		day := truncateToDay(completedAt, loc)
		key := day.Format(dayLayout)
		if perDay[key] == 0 {
			days = append(days, day)
		}
		perDay[key]++
	}

	current := 0
	for day := today; perDay[day.Format(dayLayout)] > 0; day = day.AddDate(0, 0, -1) {
		current++
	}

	calendar := make([]dto.CalendarDay, 0, calendarDays)
	for offset := calendarDays - 1; offset >= 0; offset-- {
		key := today.AddDate(0, 0, -offset).Format(dayLayout)
		count := perDay[key]
		calendar = append(calendar, dto.CalendarDay{Date: key, Count: count, HasActivity: count > 0})
	}

	return dto.StreakResponse{
		CurrentStreak:    current,
		LongestStreak:    longestRun(days),
		TotalCompletions: len(completions),
		Calendar:         calendar,
		StreakMessage:    StreakMessage(current),
	}
}

// longestRun expects distinct midnights in a single location.
func longestRun(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func truncateToDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// daysBetween returns the whole number of calendar days from one midnight to another.
func daysBetween(from, to time.Time) int {
	hours := to.Sub(from).Hours()
	if hours >= 0 {
		return int(hours/24 + 0.5)
	}
	return -int(-hours/24 + 0.5)
}
