package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/models"
	"github.com/noah-isme/gema-lms-api/internal/repository"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// ActivityActor represents the authenticated actor performing an admin action.
type ActivityActor struct {
	ID   uint
	Role string
}

// ActivityEntry captures the details required to persist an audit entry.
type ActivityEntry struct {
	ActorID    uint
	ActorRole  string
	Action     string
	EntityType string
	EntityID   *uint
	Metadata   map[string]interface{}
}

// ActivityRecorder defines behaviour for recording activity logs.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error)
}

// ActivityService exposes the audit trail of content and grading changes.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
	Create(ctx context.Context, actor ActivityActor, payload dto.ActivityCreateRequest) (dto.ActivityResponse, error)
}

type activityService struct {
	repo      repository.ActivityLogRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, validator *validator.Validate, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:      repo,
		validator: validator,
		logger:    logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Create(ctx context.Context, actor ActivityActor, payload dto.ActivityCreateRequest) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityResponse{}, err
	}

	entry := ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     payload.Action,
		EntityType: payload.EntityType,
		EntityID:   payload.EntityID,
		Metadata:   payload.Metadata,
	}

	return s.Record(ctx, entry)
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	if strings.TrimSpace(entry.Action) == "" {
		return dto.ActivityResponse{}, utils.BadRequest("action is required")
	}
	if strings.TrimSpace(entry.EntityType) == "" {
		return dto.ActivityResponse{}, utils.BadRequest("entity type is required")
	}

	actorRole := normalizeRole(entry.ActorRole)
	model := models.ActivityLog{
		ActorID:    entry.ActorID,
		ActorRole:  actorRole,
		Action:     strings.ToLower(strings.TrimSpace(entry.Action)),
		EntityType: strings.ToLower(strings.TrimSpace(entry.EntityType)),
		EntityID:   entry.EntityID,
		Metadata:   sanitizeMetadata(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist activity log")
		return dto.ActivityResponse{}, err
	}

	return dto.NewActivityResponse(model), nil
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	page := maxInt(req.Page, 1)
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	filter := repository.ActivityLogFilter{
		Page:       page,
		PageSize:   pageSize,
		Action:     strings.TrimSpace(req.Action),
		EntityType: strings.TrimSpace(req.EntityType),
	}
	if req.ActorID > 0 {
		filter.ActorID = &req.ActorID
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	responses := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityResponse(entry))
	}

	return dto.ActivityListResponse{
		Items:      responses,
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func sanitizeMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	if metadata == nil {
		return datatypes.JSONMap{}
	}

	sanitized := datatypes.JSONMap{}
	for key, value := range metadata {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "email") {
			if email, ok := value.(string); ok {
				sanitized[key] = maskEmailAddress(email)
				continue
			}
		}
		if strings.Contains(lower, "email") || strings.Contains(lower, "token") || strings.Contains(lower, "secret") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

// maskEmailAddress keeps the first and last character of the local part.
func maskEmailAddress(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ""
	}
	local, domain, found := strings.Cut(email, "@")
	if !found || local == "" || strings.Contains(domain, "@") {
		return "***"
	}
	if len(local) <= 2 {
		return local[:1] + "***@" + domain
	}
	return local[:1] + "***" + local[len(local)-1:] + "@" + domain
}

func normalizeRole(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	if r == "" {
		return "system"
	}
	return r
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
