package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/models"
	"github.com/noah-isme/gema-lms-api/internal/repository"
)

func TestBucketByMonthGroupsAscending(t *testing.T) {
	timestamps := []time.Time{
		time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
	}

	buckets := BucketByMonth(timestamps, time.UTC, trendMonths)

	require.Equal(t, []dto.KeyCount{{Key: "04-2024", Count: 1}, {Key: "05-2024", Count: 2}}, buckets)
}

func TestBucketByMonthKeepsMostRecent(t *testing.T) {
	var timestamps []time.Time
	start := time.Date(2023, 10, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		timestamps = append(timestamps, start.AddDate(0, i, 0))
	}

	buckets := BucketByMonth(timestamps, time.UTC, trendMonths)

	require.Len(t, buckets, 6)
	require.Equal(t, "12-2023", buckets[0].Key)
	require.Equal(t, "05-2024", buckets[5].Key)
}

func TestBucketByMonthEmpty(t *testing.T) {
	require.Empty(t, BucketByMonth(nil, time.UTC, trendMonths))
}

func TestNormalizeGroups(t *testing.T) {
	groups := normalizeGroups([]repository.GroupCount{{GroupKey: "graded", GroupCount: 3}, {GroupKey: "", GroupCount: 1}})
	require.Equal(t, []dto.KeyCount{{Key: "graded", Count: 3}, {Key: "unknown", Count: 1}}, groups)
}

func TestStatusGroups(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	assignments := []models.Assignment{
		{StartDate: now.Add(time.Hour), EndDate: now.Add(48 * time.Hour)},
		{StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)},
		{StartDate: now.Add(-48 * time.Hour), EndDate: now.Add(-time.Hour)},
		{StartDate: now.Add(-72 * time.Hour), EndDate: now.Add(-2 * time.Hour)},
	}

	groups := statusGroups(assignments, now)
	require.Equal(t, []dto.KeyCount{
		{Key: models.AssignmentStatusLocked, Count: 1},
		{Key: models.AssignmentStatusActive, Count: 1},
		{Key: models.AssignmentStatusEnded, Count: 2},
	}, groups)
}
