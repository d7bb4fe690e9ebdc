package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/events"
	"github.com/noah-isme/gema-lms-api/internal/models"
	"github.com/noah-isme/gema-lms-api/internal/repository"
)

type stubUploader struct {
	name   string
	folder string
	body   []byte
}

func (s *stubUploader) Upload(ctx context.Context, name, folder string, reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	s.name, s.folder, s.body = name, folder, data
	return "https://cdn.example.com/" + folder + "/" + name, nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *capturePublisher) Publish(ctx context.Context, event events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *capturePublisher) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	types := make([]string, 0, len(c.events))
	for _, event := range c.events {
		types = append(types, event.Type)
	}
	return types
}

type assignmentFixture struct {
	db        *gorm.DB
	svc       *assignmentService
	uploader  *stubUploader
	publisher *capturePublisher
	activity  *memoryActivityRepo
	actor     ActivityActor
	now       time.Time
}

func setupAssignmentService(t *testing.T) assignmentFixture {
	t.Helper()
	db := setupServiceDB(t)
	require.NoError(t, db.Create(&models.Grade{Name: "5"}).Error)

	uploader := &stubUploader{}
	publisher := &capturePublisher{}
	activityRepo := &memoryActivityRepo{}

	svc := NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewGradeRepository(db),
		testValidator(),
		uploader,
		NewActivityService(activityRepo, testValidator(), testLogger()),
		publisher,
		testLogger(),
	).(*assignmentService)

	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return assignmentFixture{
		db:        db,
		svc:       svc,
		uploader:  uploader,
		publisher: publisher,
		activity:  activityRepo,
		actor:     ActivityActor{ID: 1, Role: "admin"},
		now:       now,
	}
}

func videoPayload() dto.AssignmentCreateRequest {
	return dto.AssignmentCreateRequest{
		Grade:       "5",
		Title:       "Water cycle",
		Description: "Watch and answer",
		ContentType: models.ContentTypeVideo,
		TextContent: "stray text",
		VideoURL:    "https://video.example.com/water",
		PDFURL:      "https://files.example.com/stray.pdf",
		StartDate:   "2024-03-14T00:00:00Z",
		EndDate:     "2024-03-20T23:59:00Z",
		Questions: []dto.QuestionRequest{{
			Question: "Where does rain come from?",
			Options: []dto.QuestionOptionRequest{
				{Label: "A", Text: "Clouds"},
				{Label: "B", Text: "Rivers"},
				{Label: "C", Text: "Rocks"},
				{Label: "D", Text: "Trees"},
			},
			CorrectAnswer: "A",
		}},
	}
}

func TestAssignmentServiceVideoRoundTrip(t *testing.T) {
	f := setupAssignmentService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.actor, videoPayload(), nil)
	require.NoError(t, err)

	fetched, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "https://video.example.com/water", fetched.VideoURL)
	require.Empty(t, fetched.PDFURL)
	require.Empty(t, fetched.TextContent)
	require.Equal(t, models.AssignmentStatusActive, fetched.CalculatedStatus)
	require.Len(t, fetched.Questions, 1)
	require.Equal(t, "A", fetched.Questions[0].CorrectAnswer)

	require.Equal(t, []string{events.AssignmentCreated}, f.publisher.types())
	require.Len(t, f.activity.entries, 1)
	require.Equal(t, "assignment", f.activity.entries[0].EntityType)
}

func TestAssignmentServiceCreateValidation(t *testing.T) {
	f := setupAssignmentService(t)
	ctx := context.Background()

	payload := videoPayload()
	payload.Grade = "9"
	_, err := f.svc.Create(ctx, f.actor, payload, nil)
	require.ErrorIs(t, err, ErrUnknownGrade)

	payload = videoPayload()
	payload.EndDate = "2024-03-13T00:00:00Z"
	_, err = f.svc.Create(ctx, f.actor, payload, nil)
	require.ErrorIs(t, err, ErrInvalidWindow)

	payload = videoPayload()
	payload.VideoURL = ""
	_, err = f.svc.Create(ctx, f.actor, payload, nil)
	require.ErrorIs(t, err, ErrMissingContent)

	payload = videoPayload()
	payload.ContentType = "audio"
	_, err = f.svc.Create(ctx, f.actor, payload, nil)
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)

	payload = videoPayload()
	payload.Questions[0].Options[1].Label = "A"
	_, err = f.svc.Create(ctx, f.actor, payload, nil)
	require.Error(t, err)

	require.Empty(t, f.publisher.types())
}

func TestAssignmentServiceUpdateSwitchesContentType(t *testing.T) {
	f := setupAssignmentService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.actor, videoPayload(), nil)
	require.NoError(t, err)

	contentType := models.ContentTypeText
	text := "Read pages 10-12"
	updated, err := f.svc.Update(ctx, f.actor, created.ID, dto.AssignmentUpdateRequest{ContentType: &contentType, TextContent: &text}, nil)
	require.NoError(t, err)
	require.Equal(t, models.ContentTypeText, updated.ContentType)
	require.Equal(t, text, updated.TextContent)
	require.Empty(t, updated.VideoURL)

	stored, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Empty(t, stored.VideoURL)
	require.Equal(t, []string{events.AssignmentCreated, events.AssignmentUpdated}, f.publisher.types())
}

func TestAssignmentServiceUploadsPDF(t *testing.T) {
	f := setupAssignmentService(t)

	payload := videoPayload()
	payload.ContentType = models.ContentTypePDF
	payload.PDFURL = ""

	file := multipartFile(t, "file", "worksheet one.pdf", []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF"))
	created, err := f.svc.Create(context.Background(), f.actor, payload, file)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/assignments/grade-5/worksheet_one.pdf", created.PDFURL)
	require.Empty(t, created.VideoURL)
	require.Equal(t, "assignments/grade-5", f.uploader.folder)

	notPDF := multipartFile(t, "file", "notes.pdf", []byte("just some plain text"))
	_, err = f.svc.Create(context.Background(), f.actor, payload, notPDF)
	require.ErrorIs(t, err, ErrUploadTypeNotAllowed)
}

func TestAssignmentServiceListByGradeAndDelete(t *testing.T) {
	f := setupAssignmentService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.actor, videoPayload(), nil)
	require.NoError(t, err)

	items, err := f.svc.ListByGrade(ctx, "5")
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = f.svc.ListByGrade(ctx, "12")
	require.ErrorIs(t, err, ErrGradeNotFound)

	list, err := f.svc.List(ctx, dto.AssignmentListQuery{Grade: "5"})
	require.NoError(t, err)
	require.Equal(t, int64(1), list.Pagination.TotalItems)

	require.NoError(t, f.svc.Delete(ctx, f.actor, created.ID))
	_, err = f.svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrAssignmentNotFound)
	require.ErrorIs(t, f.svc.Delete(ctx, f.actor, created.ID), ErrAssignmentNotFound)
}

func multipartFile(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File[field][0]
}
