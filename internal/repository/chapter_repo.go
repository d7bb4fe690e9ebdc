package repository

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// ChapterRepository persists chapters and records completions.
type ChapterRepository interface {
	ListByClass(ctx context.Context, class string) ([]models.Chapter, error)
	GetByID(ctx context.Context, id uint) (models.Chapter, error)
	ExistsAtPosition(ctx context.Context, class, unit string, number int) (bool, error)
	Create(ctx context.Context, chapter *models.Chapter) error
	RecordCompletion(ctx context.Context, completion *models.ChapterCompletion) error
}

type chapterRepository struct {
	db *gorm.DB
}

// NewChapterRepository constructs a chapter repository.
func NewChapterRepository(db *gorm.DB) ChapterRepository {
	return &chapterRepository{db: db}
}

// ListByClass returns chapters in reading order. An empty class lists every chapter.
// Classes and units compare numerically where they contain numbers, so "Unit 2"
// precedes "Unit 10".
func (r *chapterRepository) ListByClass(ctx context.Context, class string) ([]models.Chapter, error) {
	query := r.db.WithContext(ctx).Model(&models.Chapter{})
	if class = strings.TrimSpace(class); class != "" {
		query = query.Where("class = ?", class)
	}

	var chapters []models.Chapter
	if err := query.Order("chapter_number ASC").Order("id ASC").Find(&chapters).Error; err != nil {
		return nil, err
	}

	sort.SliceStable(chapters, func(i, j int) bool {
		a, b := chapters[i], chapters[j]
		if a.Class != b.Class {
			return naturalLess(a.Class, b.Class)
		}
		if a.Unit != b.Unit {
			return naturalLess(a.Unit, b.Unit)
		}
		return a.ChapterNumber < b.ChapterNumber
	})
	return chapters, nil
}

// naturalLess compares strings run by run, treating digit runs as numbers.
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		ra, restA := nextRun(a)
		rb, restB := nextRun(b)
		if ra != rb {
			if isDigit(ra[0]) && isDigit(rb[0]) {
				na, nb := strings.TrimLeft(ra, "0"), strings.TrimLeft(rb, "0")
				if len(na) != len(nb) {
					return len(na) < len(nb)
				}
				if na != nb {
					return na < nb
				}
				// equal value, fewer leading zeros first
				return len(ra) < len(rb)
			}
			return ra < rb
		}
		a, b = restA, restB
	}
	return len(a) < len(b)
}

func nextRun(s string) (string, string) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (r *chapterRepository) GetByID(ctx context.Context, id uint) (models.Chapter, error) {
	var chapter models.Chapter
	if err := r.db.WithContext(ctx).First(&chapter, id).Error; err != nil {
		return models.Chapter{}, err
	}
	return chapter, nil
}

func (r *chapterRepository) ExistsAtPosition(ctx context.Context, class, unit string, number int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Chapter{}).
		Where("class = ? AND unit = ? AND chapter_number = ?", class, unit, number).
		Count(&count).Error
	return count > 0, err
}

func (r *chapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	return r.db.WithContext(ctx).Create(chapter).Error
}

// RecordCompletion appends to the completion log and adds the student to the chapter's
// completed set in one transaction. Repeated completions append again but the set stays unique.
func (r *chapterRepository) RecordCompletion(ctx context.Context, completion *models.ChapterCompletion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(completion).Error; err != nil {
			return err
		}

		return tx.Table(models.ChapterCompletedStudentsTable).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(map[string]interface{}{
				"chapter_id": completion.ChapterID,
				"student_id": completion.StudentID,
			}).Error
	})
}
