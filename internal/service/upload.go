package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MustSel/blog-api/internal/storage"
	"github.com/MustSel/blog-api/pkg/log"
)

// UploadImage загружает изображение во внешнее хранилище и возвращает
// публичный URL. Нарушение ограничений типа/размера — ErrInvalidArgument.
func (s *Service) UploadImage(ctx context.Context, name, contentType string, size int64, r io.Reader) (string, error) {
	const op = "service/upload/UploadImage"

	url, err := s.images.UploadImage(ctx, name, contentType, size, r)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidArgument) {
			return "", ErrInvalidArgument
		}

		log.From(ctx).Error("failed to upload image", "name", name, "err", err)
		return "", fmt.Errorf("%s: %w", op, ErrInternal)
	}

	log.From(ctx).Info("image uploaded", "url", url)

	return url, nil
}
