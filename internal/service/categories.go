package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MustSel/blog-api/internal/models"
	"github.com/MustSel/blog-api/internal/query"
	"github.com/MustSel/blog-api/internal/storage"
	"github.com/MustSel/blog-api/pkg/log"
)

// CategoryInput — создание/обновление рубрики.
type CategoryInput struct {
	Name string
}

// ListCategories возвращает страницу рубрик. Чтение публично.
func (s *Service) ListCategories(ctx context.Context, rawQuery string) ([]models.Category, *models.ListDetails, error) {
	const op = "service/categories/ListCategories"

	q := query.Parse(rawQuery, categoriesSchema, s.limits())

	categories, details, err := s.storage.ListCategories(ctx, q)
	if err != nil {
		log.From(ctx).Error("failed to list categories", "err", err)
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return categories, details, nil
}

// CreateCategory создаёт рубрику. Имя обязательно и уникально.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	const op = "service/categories/CreateCategory"

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidArgument
	}

	category, err := s.storage.SaveCategory(ctx, &models.Category{Name: name})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, ErrAlreadyExists
		}

		log.From(ctx).Error("failed to save category", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	log.From(ctx).Info("category created", "category_id", category.ID.Hex())

	return category, nil
}

// CategoryByID возвращает рубрику по строковому идентификатору.
func (s *Service) CategoryByID(ctx context.Context, id string) (*models.Category, error) {
	const op = "service/categories/CategoryByID"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	category, err := s.storage.CategoryByID(ctx, oid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}

		log.From(ctx).Error("failed to fetch category", "category_id", id, "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return category, nil
}

// UpdateCategory переименовывает рубрику.
func (s *Service) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	const op = "service/categories/UpdateCategory"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidArgument
	}

	category, err := s.storage.UpdateCategory(ctx, oid, map[string]any{"name": name})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, storage.ErrAlreadyExists):
			return nil, ErrAlreadyExists
		}

		log.From(ctx).Error("failed to update category", "category_id", id, "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return category, nil
}

// DeleteCategory удаляет рубрику. Блоги рубрики не каскадируются:
// ссылка categoryId у них остаётся висячей, population вернёт nil.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	const op = "service/categories/DeleteCategory"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	if err := s.storage.DeleteCategory(ctx, oid); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}

		log.From(ctx).Error("failed to delete category", "category_id", id, "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	log.From(ctx).Info("category deleted", "category_id", id)

	return nil
}
