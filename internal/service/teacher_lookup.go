package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/repository"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// ErrTeacherNotFound is returned when the caller has no teacher record.
var ErrTeacherNotFound = utils.NotFound("teacher not found")

// TeacherLookup resolves the grade a teacher is responsible for.
type TeacherLookup interface {
	GradeOf(ctx context.Context, teacherID uint) (string, error)
}

type teacherLookup struct {
	repo   repository.TeacherRepository
	cache  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewTeacherLookup builds a lookup that caches grades in Redis for ttl.
func NewTeacherLookup(repo repository.TeacherRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) TeacherLookup {
	return &teacherLookup{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "teacher_lookup").Logger(),
	}
}

func (l *teacherLookup) GradeOf(ctx context.Context, teacherID uint) (string, error) {
	key := fmt.Sprintf("teacher:grade:%d", teacherID)
	if grade, ok := readCache[string](ctx, l.cache, key, l.logger); ok && grade != "" {
		return grade, nil
	}

	teacher, err := l.repo.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTeacherNotFound
		}
		return "", err
	}

	writeCache(ctx, l.cache, key, teacher.Grade, l.ttl, l.logger)
	return teacher.Grade, nil
}
