package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/MustSel/blog-api/internal/models"
	"github.com/MustSel/blog-api/internal/storage"
)

// TokenByKey возвращает простой токен по его значению; иначе storage.ErrNotFound.
func (m *Mongo) TokenByKey(ctx context.Context, key string) (*models.Token, error) {
	const op = "storage/mongo/TokenByKey"

	var out models.Token
	if err := m.tokens.FindOne(ctx, bson.D{{Key: "token", Value: key}}).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// TokenByUser возвращает токен пользователя; иначе storage.ErrNotFound.
func (m *Mongo) TokenByUser(ctx context.Context, userID primitive.ObjectID) (*models.Token, error) {
	const op = "storage/mongo/TokenByUser"

	var out models.Token
	if err := m.tokens.FindOne(ctx, bson.D{{Key: "userId", Value: userID}}).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// SaveToken вставляет новый простой токен.
func (m *Mongo) SaveToken(ctx context.Context, token *models.Token) (*models.Token, error) {
	const op = "storage/mongo/SaveToken"

	token.CreatedAt = time.Now().UTC()

	res, err := m.tokens.InsertOne(ctx, token)
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

	token.ID = oid
	return token, nil
}

// DeleteTokenByKey удаляет токен; сообщает, была ли удалена запись.
func (m *Mongo) DeleteTokenByKey(ctx context.Context, key string) (bool, error) {
	const op = "storage/mongo/DeleteTokenByKey"

	res, err := m.tokens.DeleteOne(ctx, bson.D{{Key: "token", Value: key}})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return res.DeletedCount > 0, nil
}
