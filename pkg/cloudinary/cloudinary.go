package cloudinary

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Service stores uploaded assignment and submission files in Cloudinary.
type Service struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs a Cloudinary service instance.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Service{
		client: cld,
		folder: cfg.Folder,
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// Upload sends the file to Cloudinary under the base folder joined with folder and returns a secure URL.
func (s *Service) Upload(ctx context.Context, name, folder string, reader io.Reader) (string, error) {
	folder = joinFolder(s.folder, folder)
	publicID := buildPublicID(name, time.Now())

	params := uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "auto",
	}

	result, err := s.client.Upload.Upload(ctx, reader, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload asset: %w", err)
	}

	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}

	s.logger.Info().Str("public_id", result.PublicID).Str("folder", folder).Msg("file uploaded to cloudinary")

	return result.SecureURL, nil
}

func joinFolder(base, sub string) string {
	parts := make([]string, 0, 2)
	for _, part := range []string{base, sub} {
		if trimmed := strings.Trim(part, "/ "); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, "/")
}

func buildPublicID(name string, now time.Time) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, base)

	base = strings.Trim(base, "-")
	if base == "" {
		base = "upload"
	}

	return fmt.Sprintf("%s-%d", base, now.Unix())
}
