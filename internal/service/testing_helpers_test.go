package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// shared-cache sqlite rejects concurrent readers with "table is locked"
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func floatPointer(v float64) *float64 {
	return &v
}

func ptrUint(v uint) *uint {
	return &v
}

func sampleQuestion(correct string) models.Question {
	return models.Question{
		Question: "Which planet is known as the red planet?",
		Options: []models.QuestionOption{
			{Label: "A", Text: "Venus"},
			{Label: "B", Text: "Mars"},
			{Label: "C", Text: "Jupiter"},
			{Label: "D", Text: "Saturn"},
		},
		CorrectAnswer: correct,
	}
}
