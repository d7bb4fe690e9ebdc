package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

func TestChapterRepositoryRecordCompletionAppendsLogAndKeepsSetUnique(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChapterRepository(db)
	students := NewStudentRepository(db)
	ctx := context.Background()

	student := models.Student{Name: "Amina", Email: "amina@example.com", Class: "5"}
	require.NoError(t, db.Create(&student).Error)
	chapter := models.Chapter{Class: "5", Unit: "Fractions", ChapterNumber: 1, Title: "Halves"}
	require.NoError(t, repo.Create(ctx, &chapter))

	first := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)
	require.NoError(t, repo.RecordCompletion(ctx, &models.ChapterCompletion{StudentID: student.ID, ChapterID: chapter.ID, CompletedAt: second}))
	require.NoError(t, repo.RecordCompletion(ctx, &models.ChapterCompletion{StudentID: student.ID, ChapterID: chapter.ID, CompletedAt: first}))

	completions, err := students.ListCompletions(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, completions, 2)
	require.True(t, completions[0].CompletedAt.Equal(first), "expected oldest completion first")

	var setSize int64
	require.NoError(t, db.Table(models.ChapterCompletedStudentsTable).Where("chapter_id = ?", chapter.ID).Count(&setSize).Error)
	require.Equal(t, int64(1), setSize)
}

func TestChapterRepositoryListByClassOrdersByUnitAndNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChapterRepository(db)
	ctx := context.Background()

	for _, chapter := range []models.Chapter{
		{Class: "5", Unit: "B-Geometry", ChapterNumber: 1, Title: "Angles"},
		{Class: "5", Unit: "A-Numbers", ChapterNumber: 2, Title: "Primes"},
		{Class: "5", Unit: "A-Numbers", ChapterNumber: 1, Title: "Counting"},
		{Class: "6", Unit: "A-Numbers", ChapterNumber: 1, Title: "Integers"},
	} {
		chapter := chapter
		require.NoError(t, repo.Create(ctx, &chapter))
	}

	chapters, err := repo.ListByClass(ctx, "5")
	require.NoError(t, err)
	require.Len(t, chapters, 3)
	require.Equal(t, []string{"Counting", "Primes", "Angles"}, []string{chapters[0].Title, chapters[1].Title, chapters[2].Title})

	exists, err := repo.ExistsAtPosition(ctx, "5", "A-Numbers", 2)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsAtPosition(ctx, "6", "A-Numbers", 2)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestChapterRepositoryListByClassOrdersNumberedUnitsNumerically(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChapterRepository(db)
	ctx := context.Background()

	for _, chapter := range []models.Chapter{
		{Class: "10", Unit: "Unit 1", ChapterNumber: 1, Title: "Senior"},
		{Class: "9", Unit: "Unit 10", ChapterNumber: 1, Title: "Tenth"},
		{Class: "9", Unit: "Unit 2", ChapterNumber: 2, Title: "Second B"},
		{Class: "9", Unit: "Unit 2", ChapterNumber: 1, Title: "Second A"},
		{Class: "9", Unit: "Unit 1", ChapterNumber: 1, Title: "First"},
	} {
		chapter := chapter
		require.NoError(t, repo.Create(ctx, &chapter))
	}

	chapters, err := repo.ListByClass(ctx, "")
	require.NoError(t, err)

	titles := make([]string, 0, len(chapters))
	for _, chapter := range chapters {
		titles = append(titles, chapter.Title)
	}
	require.Equal(t, []string{"First", "Second A", "Second B", "Tenth", "Senior"}, titles)
}

func TestNaturalLess(t *testing.T) {
	cases := []struct {
		a, b string
		less bool
	}{
		{"Unit 2", "Unit 10", true},
		{"Unit 10", "Unit 2", false},
		{"9", "10", true},
		{"A-Numbers", "B-Geometry", true},
		{"Unit 2", "Unit 2b", true},
		{"Unit 02", "Unit 2", false},
		{"Unit 2", "Unit 02", true},
		{"Unit 3", "Unit 3", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.less, naturalLess(tc.a, tc.b), "%q < %q", tc.a, tc.b)
	}
}
