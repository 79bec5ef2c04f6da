package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUploadsDisabled        = errors.New("image uploads are not configured")
	ErrUnsupportedContentType = errors.New("unsupported image content type")
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// NewObjectKey builds "<entity>/<id>/<uuid><ext>" for an image of the given content type.
func NewObjectKey(entity string, id int, contentType string) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	return fmt.Sprintf("%s/%d/%s%s", entity, id, uuid.NewString(), ext), nil
}

// disabledUploader используется, когда R2 не настроен: чтение URL работает, запись возвращает ошибку.
type disabledUploader struct{}

func NewDisabledUploader() FileUploader {
	return disabledUploader{}
}

func (disabledUploader) Upload(context.Context, string, string, io.Reader) (*UploadResult, error) {
	return nil, ErrUploadsDisabled
}

func (disabledUploader) Delete(context.Context, string) error {
	return ErrUploadsDisabled
}

func (disabledUploader) GetPublicURL(string) string {
	return ""
}
