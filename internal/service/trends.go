package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/models"
	"github.com/noah-isme/gema-lms-api/internal/repository"
)

const trendMonths = 6

// BucketByMonth counts timestamps per calendar month in loc and keeps the most recent
// limit months, returned oldest first with keys formatted as MM-YYYY.
func BucketByMonth(timestamps []time.Time, loc *time.Location, limit int) []dto.KeyCount {
	if loc == nil {
		loc = time.Local
	}

	counts := make(map[int]int64)
	for _, ts := range timestamps {
		local := ts.In(loc)
		counts[local.Year()*12+int(local.Month())-1]++
	}

	months := make([]int, 0, len(counts))
	for month := range counts {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(months)))
	if limit > 0 && len(months) > limit {
		months = months[:limit]
	}

	buckets := make([]dto.KeyCount, len(months))
	for i, month := range months {
		buckets[len(months)-1-i] = dto.KeyCount{
			Key:   fmt.Sprintf("%02d-%d", month%12+1, month/12),
			Count: counts[month],
		}
	}
	return buckets
}

func normalizeGroups(rows []repository.GroupCount) []dto.KeyCount {
	groups := make([]dto.KeyCount, 0, len(rows))
	for _, row := range rows {
		key := row.GroupKey
		if key == "" {
			key = "unknown"
		}
		groups = append(groups, dto.KeyCount{Key: key, Count: row.GroupCount})
	}
	return groups
}

// statusGroups counts assignments per derived lifecycle state, always listing all three.
func statusGroups(assignments []models.Assignment, now time.Time) []dto.KeyCount {
	counts := map[string]int64{}
	for _, assignment := range assignments {
		counts[assignment.CalculatedStatus(now)]++
	}
	return []dto.KeyCount{
		{Key: models.AssignmentStatusLocked, Count: counts[models.AssignmentStatusLocked]},
		{Key: models.AssignmentStatusActive, Count: counts[models.AssignmentStatusActive]},
		{Key: models.AssignmentStatusEnded, Count: counts[models.AssignmentStatusEnded]},
	}
}
