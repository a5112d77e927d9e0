package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MustSel/blog-api/internal/models"
	"github.com/MustSel/blog-api/internal/query"
	"github.com/MustSel/blog-api/internal/storage"
)

// ListCategories возвращает страницу рубрик по дескриптору q.
func (m *Mongo) ListCategories(ctx context.Context, q query.Params) ([]models.Category, *models.ListDetails, error) {
	const op = "storage/mongo/ListCategories"

	items, details, err := listPage[models.Category](ctx, m.categories, bson.D{}, q)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, details, nil
}

// SaveCategory вставляет рубрику; дубликат имени — storage.ErrAlreadyExists.
func (m *Mongo) SaveCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	const op = "storage/mongo/SaveCategory"

	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	res, err := m.categories.InsertOne(ctx, category)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	category.ID = oid
	return category, nil
}

// CategoryByID возвращает рубрику по идентификатору; иначе storage.ErrNotFound.
func (m *Mongo) CategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	const op = "storage/mongo/CategoryByID"

	var out models.Category
	if err := m.categories.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// UpdateCategory применяет $set по allow-list полей и возвращает обновлённый документ.
func (m *Mongo) UpdateCategory(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Category, error) {
	const op = "storage/mongo/UpdateCategory"

	var out models.Category
	err := m.categories.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		setFields(fields),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)

	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// DeleteCategory удаляет рубрику; если записи нет — storage.ErrNotFound.
func (m *Mongo) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	const op = "storage/mongo/DeleteCategory"

	res, err := m.categories.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
