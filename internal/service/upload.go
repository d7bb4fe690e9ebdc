package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/noah-isme/gema-lms-api/internal/utils"
)

const maxUploadBytes = 10 * 1024 * 1024

var (
	// ErrUploadsDisabled indicates no file storage is configured.
	ErrUploadsDisabled = utils.BadRequest("file uploads are not configured")
	// ErrUploadTooLarge indicates the payload exceeded the size limit.
	ErrUploadTooLarge = utils.NewAPIError(http.StatusRequestEntityTooLarge, "file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the detected MIME type is not accepted.
	ErrUploadTypeNotAllowed = utils.NewAPIError(http.StatusUnsupportedMediaType, "file type not allowed")
)

// FileUploader stores a file under folder and returns its public URL.
type FileUploader interface {
	Upload(ctx context.Context, name, folder string, reader io.Reader) (string, error)
}

// uploadFile sniffs the file content and uploads it when its MIME type is allowed.
func uploadFile(ctx context.Context, uploader FileUploader, file *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	if uploader == nil {
		return "", ErrUploadsDisabled
	}
	if file.Size > maxUploadBytes {
		return "", ErrUploadTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(src, maxUploadBytes+1)); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if buf.Len() > maxUploadBytes {
		return "", ErrUploadTooLarge
	}

	detected := mimetype.Detect(buf.Bytes())
	if !mimeAllowed(detected, allowed) {
		return "", ErrUploadTypeNotAllowed
	}

	url, err := uploader.Upload(ctx, sanitizeFileName(file.Filename), folder, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return url, nil
}

func mimeAllowed(detected *mimetype.MIME, allowed []string) bool {
	for _, candidate := range allowed {
		if detected.Is(candidate) {
			return true
		}
	}
	return false
}

func sanitizeFileName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == "/" || base == "" {
		return "upload"
	}
	return strings.ReplaceAll(base, " ", "_")
}
