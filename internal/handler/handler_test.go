package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/config"
	"github.com/noah-isme/gema-lms-api/internal/events"
	"github.com/noah-isme/gema-lms-api/internal/handler"
	"github.com/noah-isme/gema-lms-api/internal/middleware"
	"github.com/noah-isme/gema-lms-api/internal/models"
	"github.com/noah-isme/gema-lms-api/internal/repository"
	"github.com/noah-isme/gema-lms-api/internal/router"
	"github.com/noah-isme/gema-lms-api/internal/service"
)

const testJWTSecret = "handler-secret"

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
}

func setupApp(t *testing.T) testEnv {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:http_%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	logger := zerolog.Nop()
	validate := validator.New(validator.WithRequiredStructEnabled())
	bus := events.NewBus(redisClient, nil, "lms:test", logger)

	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	gradeRepo := repository.NewGradeRepository(db)

	teachers := service.NewTeacherLookup(repository.NewTeacherRepository(db), redisClient, time.Minute, logger)
	activity := service.NewActivityService(repository.NewActivityLogRepository(db), validate, logger)
	dashboard := service.NewDashboardService(repository.NewDashboardRepository(db), teachers, redisClient, time.Minute, time.UTC, logger)
	bus.Subscribe(dashboard.HandleEvent)

	todo := service.NewTodoService(studentRepo, assignmentRepo, submissionRepo, chapterRepo, validate, time.UTC, logger)
	assignments := service.NewAssignmentService(assignmentRepo, gradeRepo, validate, nil, activity, bus, logger)
	chapters := service.NewChapterService(chapterRepo, studentRepo, validate, activity, bus, time.UTC, logger)
	grades := service.NewGradeService(gradeRepo, validate, bus, logger)
	submissions := service.NewSubmissionService(service.SubmissionDependencies{
		Submissions: submissionRepo,
		Assignments: assignmentRepo,
		Students:    studentRepo,
		Teachers:    teachers,
		Validator:   validate,
		Activity:    activity,
		Events:      bus,
	}, logger)

	cfg := config.Config{AppName: "Test", JWTSecret: testJWTSecret, AuthCookieName: "accessToken", SubmissionRateLimit: 100}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger)})
	app.Use(middleware.CorrelationID())
	router.Register(app, cfg, router.Dependencies{
		TodoHandler:       handler.NewTodoHandler(todo, logger),
		DashboardHandler:  handler.NewDashboardHandler(dashboard, logger),
		AssignmentHandler: handler.NewAssignmentHandler(assignments, logger),
		ChapterHandler:    handler.NewChapterHandler(chapters, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissions, logger),
		GradeHandler:      handler.NewGradeHandler(grades),
		ActivityHandler:   handler.NewActivityHandler(activity, logger),
	})

	return testEnv{app: app, db: db}
}

func seedSchool(t *testing.T, db *gorm.DB) (models.Student, models.Teacher) {
	t.Helper()
	require.NoError(t, db.Create(&models.Grade{Name: "7"}).Error)
	student := models.Student{Name: "Ayu", Email: "ayu@example.com", Class: "7"}
	require.NoError(t, db.Create(&student).Error)
	teacher := models.Teacher{Name: "Budi", Email: "budi@example.com", Grade: "7"}
	require.NoError(t, db.Create(&teacher).Error)
	return student, teacher
}

func seedAssignment(t *testing.T, db *gorm.DB, title string, start, end time.Time) models.Assignment {
	t.Helper()
	assignment := models.Assignment{
		Grade:       "7",
		Title:       title,
		ContentType: models.ContentTypeText,
		TextContent: "Read the chapter",
		StartDate:   start,
		EndDate:     end,
	}
	require.NoError(t, db.Create(&assignment).Error)
	return assignment
}

func tokenFor(t *testing.T, userID uint, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", userID),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return data
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(readBody(t, resp), &body))
	return body
}

func compileSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)
	schema, err := jsonschema.NewCompiler().Compile("file://" + filepath.ToSlash(path))
	require.NoError(t, err)
	return schema
}

func validateAgainst(t *testing.T, schemaName string, body []byte) {
	t.Helper()
	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, compileSchema(t, schemaName).Validate(payload))
}

func TestHealthEndpoint(t *testing.T) {
	env := setupApp(t)

	resp := doJSON(t, env.app, http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "Test", resp.Header.Get("X-Application"))
	require.True(t, decodeEnvelope(t, resp).Success)
}

func TestTodoRoutesRequireStudentIdentity(t *testing.T) {
	env := setupApp(t)
	_, teacher := seedSchool(t, env.db)

	resp := doJSON(t, env.app, http.MethodGet, "/api/v2/todo/streak", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.False(t, decodeEnvelope(t, resp).Success)

	resp = doJSON(t, env.app, http.MethodGet, "/api/v2/todo/streak", tokenFor(t, teacher.ID, "teacher"), nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodGet, "/api/v2/todo/streak", tokenFor(t, 999, "student"), nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStreakContractAfterChapterCompletion(t *testing.T) {
	env := setupApp(t)
	student, _ := seedSchool(t, env.db)
	chapter := models.Chapter{Class: "7", Unit: "Fractions", ChapterNumber: 1, Title: "Halves and quarters"}
	require.NoError(t, env.db.Create(&chapter).Error)
	token := tokenFor(t, student.ID, "student")

	resp := doJSON(t, env.app, http.MethodPost, fmt.Sprintf("/api/v2/chapter/%d/complete", chapter.ID), token, map[string]interface{}{"quiz_score": 80})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var completion struct {
		CurrentStreak int `json:"current_streak"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &completion))
	require.Equal(t, 1, completion.CurrentStreak)

	resp = doJSON(t, env.app, http.MethodGet, "/api/v2/todo/streak", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	validateAgainst(t, "streak.schema.json", body)

	var streak struct {
		Data struct {
			CurrentStreak    int `json:"current_streak"`
			TotalCompletions int `json:"total_completions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &streak))
	require.Equal(t, 1, streak.Data.CurrentStreak)
	require.Equal(t, 1, streak.Data.TotalCompletions)
}

func TestTodoAssignmentsContractAndFilters(t *testing.T) {
	env := setupApp(t)
	student, _ := seedSchool(t, env.db)
	now := time.Now().UTC()
	seedAssignment(t, env.db, "Essay draft", now.Add(-24*time.Hour), now.Add(72*time.Hour))
	seedAssignment(t, env.db, "Lab notes", now.Add(-96*time.Hour), now.Add(-48*time.Hour))
	token := tokenFor(t, student.ID, "student")

	resp := doJSON(t, env.app, http.MethodGet, "/api/v2/todo/assignments?status=overdue&limit=5", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	validateAgainst(t, "todo_assignments.schema.json", body)

	var list struct {
		Data struct {
			Data []struct {
				Title     string `json:"title"`
				IsPastDue bool   `json:"is_past_due"`
			} `json:"data"`
			Total int `json:"total"`
			Limit int `json:"limit"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	require.Equal(t, 1, list.Data.Total)
	require.Equal(t, 5, list.Data.Limit)
	require.Equal(t, "Lab notes", list.Data.Data[0].Title)
	require.True(t, list.Data.Data[0].IsPastDue)

	resp = doJSON(t, env.app, http.MethodGet, "/api/v2/todo/assignments?status=archived", token, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodGet, "/api/v2/todo/assignments?page=abc", token, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTodoOverviewContract(t *testing.T) {
	env := setupApp(t)
	student, _ := seedSchool(t, env.db)
	now := time.Now().UTC()
	active := seedAssignment(t, env.db, "Poem analysis", now.Add(-time.Hour), now.Add(48*time.Hour))
	seedAssignment(t, env.db, "Map reading", now.Add(-time.Hour), now.Add(24*time.Hour))
	require.NoError(t, env.db.Create(&models.Chapter{Class: "7", Unit: "Poetry", ChapterNumber: 1, Title: "Rhyme"}).Error)
	token := tokenFor(t, student.ID, "student")

	resp := doJSON(t, env.app, http.MethodPost, "/api/v2/submission", token, map[string]interface{}{
		"assignment_id":   active.ID,
		"submission_type": "text",
		"text_content":    "<p>The poem uses <b>imagery</b></p>",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodGet, "/api/v2/todo/overview", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	validateAgainst(t, "todo_overview.schema.json", body)

	var overview struct {
		Data struct {
			Stats struct {
				TotalAssignments int `json:"total_assignments"`
				Submitted        int `json:"submitted"`
				Pending          int `json:"pending"`
			} `json:"stats"`
			RecentSubmissions []struct {
				AssignmentTitle string `json:"assignment_title"`
			} `json:"recent_submissions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &overview))
	require.Equal(t, 2, overview.Data.Stats.TotalAssignments)
	require.Equal(t, 1, overview.Data.Stats.Submitted)
	require.Equal(t, 1, overview.Data.Stats.Pending)
	require.Len(t, overview.Data.RecentSubmissions, 1)
	require.Equal(t, "Poem analysis", overview.Data.RecentSubmissions[0].AssignmentTitle)
}

func TestAssignmentRoutes(t *testing.T) {
	env := setupApp(t)
	student, teacher := seedSchool(t, env.db)
	teacherToken := tokenFor(t, teacher.ID, "teacher")
	now := time.Now().UTC()

	create := map[string]interface{}{
		"grade":        "7",
		"title":        "Volcano video",
		"content_type": "video",
		"video_url":    "https://videos.example.com/volcano",
		"text_content": "ignored",
		"start_date":   now.Add(-time.Hour).Format(time.RFC3339),
		"end_date":     now.Add(48 * time.Hour).Format(time.RFC3339),
	}

	resp := doJSON(t, env.app, http.MethodPost, "/api/v2/assignment", tokenFor(t, student.ID, "student"), create)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodPost, "/api/v2/assignment", teacherToken, create)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created struct {
		ID               uint   `json:"id"`
		TextContent      string `json:"text_content"`
		CalculatedStatus string `json:"calculated_status"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &created))
	require.NotZero(t, created.ID)
	require.Empty(t, created.TextContent)
	require.Equal(t, models.AssignmentStatusActive, created.CalculatedStatus)

	resp = doJSON(t, env.app, http.MethodGet, "/api/v2/assignment/grade/7", teacherToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var byGrade []json.RawMessage
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &byGrade))
	require.Len(t, byGrade, 1)

	resp = doJSON(t, env.app, http.MethodGet, "/api/v2/assignment/grade/12", teacherToken, nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodGet, "/api/v2/assignment?grade=7&page=1&page_size=10", teacherToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	listBody := decodeEnvelope(t, resp)
	require.NotEmpty(t, listBody.Meta)

	resp = doJSON(t, env.app, http.MethodPut, fmt.Sprintf("/api/v2/assignment/%d", created.ID), teacherToken, map[string]interface{}{
		"content_type": "text",
		"text_content": "Write about volcanoes",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var updated struct {
		ContentType string `json:"content_type"`
		VideoURL    string `json:"video_url"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &updated))
	require.Equal(t, "text", updated.ContentType)
	require.Empty(t, updated.VideoURL)

	resp = doJSON(t, env.app, http.MethodDelete, fmt.Sprintf("/api/v2/assignment/%d", created.ID), teacherToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodGet, fmt.Sprintf("/api/v2/assignment/%d", created.ID), teacherToken, nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodGet, "/api/v2/assignment/abc", teacherToken, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAssignmentMultipartUploadWithoutStorage(t *testing.T) {
	env := setupApp(t)
	_, teacher := seedSchool(t, env.db)
	now := time.Now().UTC()

	body := &bytes.Buffer{}
	contentType := newMultipart(t, body, map[string]string{
		"grade":        "7",
		"title":        "Reading pack",
		"content_type": "pdf",
		"start_date":   now.Format(time.RFC3339),
		"end_date":     now.Add(24 * time.Hour).Format(time.RFC3339),
	}, "pack.pdf", []byte("%PDF-1.4\n%fake\n"))

	req := httptest.NewRequest(http.MethodPost, "/api/v2/assignment", body)
	req.Header.Set(fiber.HeaderContentType, contentType)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tokenFor(t, teacher.ID, "teacher"))
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, service.ErrUploadsDisabled.Message, decodeEnvelope(t, resp).Message)
}

func TestSubmissionRoutes(t *testing.T) {
	env := setupApp(t)
	student, teacher := seedSchool(t, env.db)
	now := time.Now().UTC()
	assignment := seedAssignment(t, env.db, "Story outline", now.Add(-time.Hour), now.Add(24*time.Hour))
	locked := seedAssignment(t, env.db, "Next week", now.Add(24*time.Hour), now.Add(72*time.Hour))
	studentToken := tokenFor(t, student.ID, "student")

	payload := map[string]interface{}{
		"assignment_id":   assignment.ID,
		"submission_type": "text",
		"text_content":    "Beginning, middle and end<script>alert(1)</script>",
	}
	resp := doJSON(t, env.app, http.MethodPost, "/api/v2/submission", studentToken, payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var submission struct {
		ID          uint   `json:"id"`
		TextContent string `json:"text_content"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &submission))
	require.NotContains(t, submission.TextContent, "<script>")

	resp = doJSON(t, env.app, http.MethodPost, "/api/v2/submission", studentToken, payload)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	payload["assignment_id"] = locked.ID
	resp = doJSON(t, env.app, http.MethodPost, "/api/v2/submission", studentToken, payload)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodPatch, fmt.Sprintf("/api/v2/submission/%d/grade", submission.ID), studentToken, map[string]interface{}{"score": 90})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodPatch, fmt.Sprintf("/api/v2/submission/%d/grade", submission.ID), tokenFor(t, teacher.ID, "teacher"), map[string]interface{}{
		"score":    88.5,
		"feedback": "Nice structure",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var graded struct {
		Score  *float64 `json:"score"`
		Status string   `json:"status"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &graded))
	require.NotNil(t, graded.Score)
	require.InDelta(t, 88.5, *graded.Score, 0.001)
	require.Equal(t, models.SubmissionStatusGraded, graded.Status)

	resp = doJSON(t, env.app, http.MethodGet, "/api/v2/submission/me", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var mine []json.RawMessage
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &mine))
	require.Len(t, mine, 1)
}

func TestDashboardCacheMetaAndInvalidation(t *testing.T) {
	env := setupApp(t)
	_, teacher := seedSchool(t, env.db)
	adminToken := tokenFor(t, 1, "admin")

	cacheHit := func(path, token string) bool {
		resp := doJSON(t, env.app, http.MethodGet, path, token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var meta struct {
			CacheHit bool `json:"cache_hit"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Meta, &meta))
		return meta.CacheHit
	}

	require.False(t, cacheHit("/api/v2/dashboard/admin", adminToken))
	require.True(t, cacheHit("/api/v2/dashboard/admin", adminToken))

	resp := doJSON(t, env.app, http.MethodPost, "/api/v2/grade", adminToken, map[string]string{"name": "8"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.False(t, cacheHit("/api/v2/dashboard/admin", adminToken))

	teacherToken := tokenFor(t, teacher.ID, "teacher")
	require.False(t, cacheHit("/api/v2/dashboard/teacher", teacherToken))
	require.True(t, cacheHit("/api/v2/dashboard/teacher", teacherToken))

	resp = doJSON(t, env.app, http.MethodGet, "/api/v2/dashboard/admin", teacherToken, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestGradeAndActivityRoutes(t *testing.T) {
	env := setupApp(t)
	adminToken := tokenFor(t, 1, "admin")

	resp := doJSON(t, env.app, http.MethodPost, "/api/v2/grade", adminToken, map[string]string{"name": "9"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodPost, "/api/v2/grade", adminToken, map[string]string{"name": "9"})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodPost, "/api/v2/grade", adminToken, map[string]string{"name": "nine!"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodGet, "/api/v2/grade", tokenFor(t, 5, "student"), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodPost, "/api/v2/activity", adminToken, map[string]interface{}{
		"action":      "manual.note",
		"entity_type": "grade",
		"metadata":    map[string]string{"email": "head@example.com"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodGet, "/api/v2/activity?action=manual.note", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var entries []struct {
		Metadata map[string]interface{} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &entries))
	require.Len(t, entries, 1)
	require.NotEqual(t, "head@example.com", entries[0].Metadata["email"])

	resp = doJSON(t, env.app, http.MethodGet, "/api/v2/activity", tokenFor(t, 2, "teacher"), nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
