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

// ListBlogs возвращает страницу блогов с population автора и рубрики.
// base — серверный фильтр видимости; перекрыть его query string нельзя.
func (m *Mongo) ListBlogs(ctx context.Context, base map[string]any, q query.Params) ([]models.Blog, *models.ListDetails, error) {
	const op = "storage/mongo/ListBlogs"

	items, details, err := listPage[models.Blog](ctx, m.blogs, baseFilter(base), q)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := m.populateBlogs(ctx, items); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, details, nil
}

// populateBlogs встраивает проекции автора и рубрики в выдачу.
func (m *Mongo) populateBlogs(ctx context.Context, blogs []models.Blog) error {
	userIDs := make([]primitive.ObjectID, 0, len(blogs))
	categoryIDs := make([]primitive.ObjectID, 0, len(blogs))
	for _, b := range blogs {
		userIDs = append(userIDs, b.UserID)
		categoryIDs = append(categoryIDs, b.CategoryID)
	}

	users, err := m.userSummaries(ctx, userIDs)
	if err != nil {
		return err
	}

	categories, err := m.categorySummaries(ctx, categoryIDs)
	if err != nil {
		return err
	}

	for i := range blogs {
		if u, ok := users[blogs[i].UserID]; ok {
			blogs[i].User = &u
		}
		if c, ok := categories[blogs[i].CategoryID]; ok {
			blogs[i].Category = &c
		}
	}

	return nil
}

// SaveBlog вставляет новый блог. likes/comments всегда инициализируются
// пустыми массивами, countOfVisitors — нулём.
func (m *Mongo) SaveBlog(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	const op = "storage/mongo/SaveBlog"

	now := time.Now().UTC()
	blog.CreatedAt = now
	blog.UpdatedAt = now
	blog.CountOfVisitors = 0
	blog.Likes = []primitive.ObjectID{}
	blog.Comments = []primitive.ObjectID{}

	res, err := m.blogs.InsertOne(ctx, blog)
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	blog.ID = oid
	return blog, nil
}

// BlogByID возвращает блог без побочных эффектов и population.
func (m *Mongo) BlogByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	const op = "storage/mongo/BlogByID"

	var out models.Blog
	if err := m.blogs.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// ReadBlog атомарно инкрементирует countOfVisitors и возвращает обновлённый
// документ с population: автор, рубрика и комментарии с их авторами.
// Инкремент выполняется безусловно — чтения публичны, владение
// проверяется только на мутациях.
func (m *Mongo) ReadBlog(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	const op = "storage/mongo/ReadBlog"

	var out models.Blog
	err := m.blogs.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "countOfVisitors", Value: 1}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)

	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	blogs := []models.Blog{out}
	if err := m.populateBlogs(ctx, blogs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out = blogs[0]

	comments, err := m.commentsWithAuthors(ctx, out.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out.CommentDetails = comments

	return &out, nil
}

// commentsWithAuthors — комментарии блога (createdAt ASC) с авторами.
func (m *Mongo) commentsWithAuthors(ctx context.Context, blogID primitive.ObjectID) ([]models.Comment, error) {
	cur, err := m.comments.Find(ctx,
		bson.D{{Key: "blogId", Value: blogID}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := []models.Comment{}
	for cur.Next(ctx) {
		var c models.Comment
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		items = append(items, c)
	}

	if err := cur.Err(); err != nil {
		return nil, err
	}

	userIDs := make([]primitive.ObjectID, 0, len(items))
	for _, c := range items {
		userIDs = append(userIDs, c.UserID)
	}

	users, err := m.userSummaries(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if u, ok := users[items[i].UserID]; ok {
			items[i].User = &u
		}
	}

	return items, nil
}

// UpdateBlog применяет $set по allow-list полей и возвращает обновлённый документ.
func (m *Mongo) UpdateBlog(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Blog, error) {
	const op = "storage/mongo/UpdateBlog"

	var out models.Blog
	err := m.blogs.FindOneAndUpdate(ctx,
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

// DeleteBlog удаляет блог; если записи нет — storage.ErrNotFound.
// Каскад по комментариям выполняет сервисный слой (DeleteCommentsByBlog).
func (m *Mongo) DeleteBlog(ctx context.Context, id primitive.ObjectID) error {
	const op = "storage/mongo/DeleteBlog"

	res, err := m.blogs.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// AddBlogLike добавляет userID в множество likes ($addToSet) и
// возвращает актуальный размер множества.
func (m *Mongo) AddBlogLike(ctx context.Context, blogID, userID primitive.ObjectID) (int64, error) {
	const op = "storage/mongo/AddBlogLike"

	return m.updateLikes(ctx, op, blogID,
		bson.D{{Key: "$addToSet", Value: bson.D{{Key: "likes", Value: userID}}}})
}

// RemoveBlogLike убирает userID из множества likes ($pull) и
// возвращает актуальный размер множества.
func (m *Mongo) RemoveBlogLike(ctx context.Context, blogID, userID primitive.ObjectID) (int64, error) {
	const op = "storage/mongo/RemoveBlogLike"

	return m.updateLikes(ctx, op, blogID,
		bson.D{{Key: "$pull", Value: bson.D{{Key: "likes", Value: userID}}}})
}

func (m *Mongo) updateLikes(ctx context.Context, op string, blogID primitive.ObjectID, update bson.D) (int64, error) {
	var out struct {
		Likes []primitive.ObjectID `bson:"likes"`
	}

	err := m.blogs.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: blogID}},
		update,
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.D{{Key: "likes", Value: 1}}),
	).Decode(&out)

	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return int64(len(out.Likes)), nil
}

// PushBlogComment добавляет id комментария в список comments блога.
func (m *Mongo) PushBlogComment(ctx context.Context, blogID, commentID primitive.ObjectID) error {
	const op = "storage/mongo/PushBlogComment"

	res, err := m.blogs.UpdateByID(ctx, blogID,
		bson.D{{Key: "$push", Value: bson.D{{Key: "comments", Value: commentID}}}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// PullBlogComment убирает id комментария из списка comments блога.
func (m *Mongo) PullBlogComment(ctx context.Context, blogID, commentID primitive.ObjectID) error {
	const op = "storage/mongo/PullBlogComment"

	res, err := m.blogs.UpdateByID(ctx, blogID,
		bson.D{{Key: "$pull", Value: bson.D{{Key: "comments", Value: commentID}}}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
