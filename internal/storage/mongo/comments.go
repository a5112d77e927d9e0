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

// ListComments возвращает страницу комментариев с population автора.
func (m *Mongo) ListComments(ctx context.Context, base map[string]any, q query.Params) ([]models.Comment, *models.ListDetails, error) {
	const op = "storage/mongo/ListComments"

	items, details, err := listPage[models.Comment](ctx, m.comments, baseFilter(base), q)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	userIDs := make([]primitive.ObjectID, 0, len(items))
	for _, c := range items {
		userIDs = append(userIDs, c.UserID)
	}

	users, err := m.userSummaries(ctx, userIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range items {
		if u, ok := users[items[i].UserID]; ok {
			items[i].User = &u
		}
	}

	return items, details, nil
}

// SaveComment вставляет комментарий и возвращает его с population автора.
// Добавление id в список comments родительского блога — отдельная операция
// (PushBlogComment); атомарности между ними нет.
func (m *Mongo) SaveComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	const op = "storage/mongo/SaveComment"

	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	res, err := m.comments.InsertOne(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type", op)
	}
	comment.ID = oid

	users, err := m.userSummaries(ctx, []primitive.ObjectID{comment.UserID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u, ok := users[comment.UserID]; ok {
		comment.User = &u
	}

	return comment, nil
}

// CommentByID возвращает комментарий с population автора и блога.
func (m *Mongo) CommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	const op = "storage/mongo/CommentByID"

	var out models.Comment
	if err := m.comments.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users, err := m.userSummaries(ctx, []primitive.ObjectID{out.UserID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u, ok := users[out.UserID]; ok {
		out.User = &u
	}

	blogs, err := m.blogSummaries(ctx, []primitive.ObjectID{out.BlogID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if b, ok := blogs[out.BlogID]; ok {
		out.Blog = &b
	}

	return &out, nil
}

// UpdateComment применяет $set по allow-list полей и возвращает обновлённый документ.
func (m *Mongo) UpdateComment(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Comment, error) {
	const op = "storage/mongo/UpdateComment"

	var out models.Comment
	err := m.comments.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		setFields(fields),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)

	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// DeleteComment удаляет комментарий; если записи нет — storage.ErrNotFound.
func (m *Mongo) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	const op = "storage/mongo/DeleteComment"

	res, err := m.comments.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DeleteCommentsByBlog удаляет все комментарии блога (каскад).
func (m *Mongo) DeleteCommentsByBlog(ctx context.Context, blogID primitive.ObjectID) (int64, error) {
	const op = "storage/mongo/DeleteCommentsByBlog"

	res, err := m.comments.DeleteMany(ctx, bson.D{{Key: "blogId", Value: blogID}})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.DeletedCount, nil
}
