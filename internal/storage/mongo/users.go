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

// ListUsers возвращает страницу пользователей по дескриптору q.
func (m *Mongo) ListUsers(ctx context.Context, q query.Params) ([]models.User, *models.ListDetails, error) {
	const op = "storage/mongo/ListUsers"

	items, details, err := listPage[models.User](ctx, m.users, bson.D{}, q)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, details, nil
}

// SaveUser вставляет нового пользователя.
// Конфликт уникальности username/email — storage.ErrAlreadyExists.
func (m *Mongo) SaveUser(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "storage/mongo/SaveUser"

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := m.users.InsertOne(ctx, user)
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

	user.ID = oid
	return user, nil
}

// UserByID возвращает пользователя по идентификатору; иначе storage.ErrNotFound.
func (m *Mongo) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	const op = "storage/mongo/UserByID"

	var out models.User
	if err := m.users.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// UserByLogin ищет пользователя по username ИЛИ email.
func (m *Mongo) UserByLogin(ctx context.Context, username, email string) (*models.User, error) {
	const op = "storage/mongo/UserByLogin"

	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "username", Value: username}},
		bson.D{{Key: "email", Value: email}},
	}}}

	var out models.User
	if err := m.users.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// UpdateUser применяет $set по allow-list полей и возвращает обновлённый документ.
func (m *Mongo) UpdateUser(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.User, error) {
	const op = "storage/mongo/UpdateUser"

	var out models.User
	err := m.users.FindOneAndUpdate(ctx,
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

// DeleteUser удаляет пользователя; если записи нет — storage.ErrNotFound.
func (m *Mongo) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	const op = "storage/mongo/DeleteUser"

	res, err := m.users.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
