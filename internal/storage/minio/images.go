package minio

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"

	"github.com/MustSel/blog-api/internal/storage"
)

// UploadImage загружает изображение и возвращает стабильный публичный URL.
// Валидирует contentType и size согласно конфигу; ключ объекта —
// "uploads/<uuid>.<ext>". Ядро дальше оперирует только URL-строкой.
func (s *ImagesStorage) UploadImage(ctx context.Context, name, contentType string, size int64, r io.Reader) (string, error) {
	const op = "storage/minio/UploadImage"

	if size <= 0 || size > s.cfg.Uploads.MaxSizeBytes {
		return "", storage.ErrInvalidArgument
	}

	if !isAllowedContentType(s.cfg.Uploads.AllowedContentTypes, contentType) {
		return "", storage.ErrInvalidArgument
	}

	key := path.Join("uploads", uuid.NewString()+extFor(contentType, name))

	if _, err := s.client.PutObject(ctx, s.cfg.S3.Bucket, key, r, size, mclient.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if base := strings.TrimRight(s.cfg.S3.PublicBaseURL, "/"); base != "" {
		return base + "/" + key, nil
	}

	return strings.TrimRight(s.cfg.S3.Endpoint, "/") + "/" + s.cfg.S3.Bucket + "/" + key, nil
}

// extFor выбирает расширение по contentType, с откатом на исходное имя файла.
func extFor(contentType, name string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}

	if ext := path.Ext(name); ext != "" {
		return ext
	}

	return ""
}

// isAllowedContentType проверяет, что тип содержимого входит в allow-list.
func isAllowedContentType(allow []string, contentType string) bool {
	for _, a := range allow {
		if a == contentType {
			return true
		}
	}

	return false
}
