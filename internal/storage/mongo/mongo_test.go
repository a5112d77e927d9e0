package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/MustSel/blog-api/internal/config"
	"github.com/MustSel/blog-api/internal/models"
	"github.com/MustSel/blog-api/internal/query"
	"github.com/MustSel/blog-api/internal/storage"
)

// Интеграционные тесты для пакета mongo:
// — поднимают реальный MongoDB через testcontainers-go;
// — проверяют CRUD по коллекциям, уникальные индексы, постраничную
//   выдачу list executor'а (включая неперекрываемость базового фильтра),
//   счётчик посещений, toggle лайков и каскад комментариев.
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/mongo -v -race -count=1

func startMongo(t *testing.T) *Mongo {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "docker.io/mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
	}

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "27017/tcp")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.DB.URL = fmt.Sprintf("mongodb://%s:%s/blog_test", host, port.Port())

	m, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close(context.Background()) })

	return m
}

func seedUser(t *testing.T, m *Mongo, username string) *models.User {
	t.Helper()
	user, err := m.SaveUser(context.Background(), &models.User{
		Username:  username,
		Password:  "hash",
		Email:     username + "@example.com",
		FirstName: "First",
		LastName:  "Last",
		IsActive:  true,
	})
	require.NoError(t, err)
	return user
}

func seedBlog(t *testing.T, m *Mongo, userID, catID primitive.ObjectID, title string, publish bool) *models.Blog {
	t.Helper()
	blog, err := m.SaveBlog(context.Background(), &models.Blog{
		UserID:     userID,
		CategoryID: catID,
		Title:      title,
		Content:    "content of " + title,
		IsPublish:  publish,
	})
	require.NoError(t, err)
	return blog
}

func TestUsers_CRUDAndUniqueness(t *testing.T) {
	m := startMongo(t)
	ctx := context.Background()

	user := seedUser(t, m, "alice")
	require.False(t, user.ID.IsZero())

	// Поиск по username и по email.
	got, err := m.UserByLogin(ctx, "alice", "")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	got, err = m.UserByLogin(ctx, "", "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	_, err = m.UserByLogin(ctx, "ghost", "")
	require.ErrorIs(t, err, storage.ErrNotFound)

	// Уникальность username.
	_, err = m.SaveUser(ctx, &models.User{Username: "alice", Email: "other@example.com"})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	// Обновление по allow-list полей.
	updated, err := m.UpdateUser(ctx, user.ID, map[string]any{"bio": "hello"})
	require.NoError(t, err)
	require.Equal(t, "hello", updated.Bio)
	require.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	require.NoError(t, m.DeleteUser(ctx, user.ID))
	require.ErrorIs(t, m.DeleteUser(ctx, user.ID), storage.ErrNotFound)
}

func TestBlogs_ListPaginationAndBaseFilter(t *testing.T) {
	m := startMongo(t)
	ctx := context.Background()

	author := seedUser(t, m, "writer")
	cat, err := m.SaveCategory(ctx, &models.Category{Name: "tech"})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		seedBlog(t, m, author.ID, cat.ID, fmt.Sprintf("published-%d", i), true)
	}
	seedBlog(t, m, author.ID, cat.ID, "draft", false)

	base := map[string]any{"isPublish": true}

	// Страница 2 при limit=2 — вторая пара, метаданные по всему фильтру.
	blogs, details, err := m.ListBlogs(ctx, base, query.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, blogs, 2)
	require.Equal(t, int64(5), details.TotalCount)
	require.Equal(t, int64(3), details.PageCount)
	require.Equal(t, int64(2), details.CurrentPage)

	// Страница за пределами выдачи — пустой список, не ошибка.
	blogs, details, err = m.ListBlogs(ctx, base, query.Params{Page: 99, Limit: 2})
	require.NoError(t, err)
	require.NotNil(t, blogs)
	require.Empty(t, blogs)
	require.Equal(t, int64(5), details.TotalCount)

	// Базовый фильтр не перекрывается пользовательским constraint'ом.
	blogs, _, err = m.ListBlogs(ctx, base, query.Params{
		Filter: map[string]string{"isPublish": "false"},
		Page:   1, Limit: 20,
	})
	require.NoError(t, err)
	require.Len(t, blogs, 5)
	for _, b := range blogs {
		require.True(t, b.IsPublish)
	}

	// Population: автор и рубрика встроены проекциями.
	require.NotNil(t, blogs[0].User)
	require.Equal(t, "writer", blogs[0].User.Username)
	require.NotNil(t, blogs[0].Category)
	require.Equal(t, "tech", blogs[0].Category.Name)

	// Search — регистронезависимое вхождение.
	blogs, _, err = m.ListBlogs(ctx, base, query.Params{
		Search: map[string]string{"title": "PUBLISHED-3"},
		Page:   1, Limit: 20,
	})
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	require.Equal(t, "published-3", blogs[0].Title)

	// Sort по объявленному направлению.
	blogs, _, err = m.ListBlogs(ctx, base, query.Params{
		Sort: []query.SortField{{Field: "title", Direction: query.Desc}},
		Page: 1, Limit: 20,
	})
	require.NoError(t, err)
	require.Equal(t, "published-4", blogs[0].Title)
}

func TestBlogs_ReadIncrementsVisitorsAndPopulates(t *testing.T) {
	m := startMongo(t)
	ctx := context.Background()

	author := seedUser(t, m, "reader-author")
	cat, err := m.SaveCategory(ctx, &models.Category{Name: "life"})
	require.NoError(t, err)
	blog := seedBlog(t, m, author.ID, cat.ID, "visits", true)

	comment, err := m.SaveComment(ctx, &models.Comment{
		UserID:  author.ID,
		BlogID:  blog.ID,
		Comment: "first!",
	})
	require.NoError(t, err)
	require.NoError(t, m.PushBlogComment(ctx, blog.ID, comment.ID))

	got, err := m.ReadBlog(ctx, blog.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.CountOfVisitors)
	require.NotNil(t, got.User)
	require.NotNil(t, got.Category)
	require.Len(t, got.CommentDetails, 1)
	require.Equal(t, "first!", got.CommentDetails[0].Comment)
	require.NotNil(t, got.CommentDetails[0].User)
	require.Equal(t, "reader-author", got.CommentDetails[0].User.Username)

	// Каждое чтение учитывается.
	got, err = m.ReadBlog(ctx, blog.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), got.CountOfVisitors)

	_, err = m.ReadBlog(ctx, primitive.NewObjectID())
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBlogs_LikeToggleSemantics(t *testing.T) {
	m := startMongo(t)
	ctx := context.Background()

	author := seedUser(t, m, "liker-author")
	cat, err := m.SaveCategory(ctx, &models.Category{Name: "likes"})
	require.NoError(t, err)
	blog := seedBlog(t, m, author.ID, cat.ID, "likeable", true)

	uid := primitive.NewObjectID()

	count, err := m.AddBlogLike(ctx, blog.ID, uid)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	// $addToSet: повторное добавление не создаёт дубликата.
	count, err = m.AddBlogLike(ctx, blog.ID, uid)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	count, err = m.RemoveBlogLike(ctx, blog.ID, uid)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)

	_, err = m.AddBlogLike(ctx, primitive.NewObjectID(), uid)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestComments_CascadeByBlog(t *testing.T) {
	m := startMongo(t)
	ctx := context.Background()

	author := seedUser(t, m, "commenter")
	cat, err := m.SaveCategory(ctx, &models.Category{Name: "cascade"})
	require.NoError(t, err)
	blog := seedBlog(t, m, author.ID, cat.ID, "with-comments", true)
	other := seedBlog(t, m, author.ID, cat.ID, "untouched", true)

	for i := 0; i < 3; i++ {
		c, err := m.SaveComment(ctx, &models.Comment{UserID: author.ID, BlogID: blog.ID, Comment: fmt.Sprintf("c%d", i)})
		require.NoError(t, err)
		require.NoError(t, m.PushBlogComment(ctx, blog.ID, c.ID))
	}
	keep, err := m.SaveComment(ctx, &models.Comment{UserID: author.ID, BlogID: other.ID, Comment: "keep"})
	require.NoError(t, err)

	removed, err := m.DeleteCommentsByBlog(ctx, blog.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), removed)

	// Чужие комментарии каскад не трогает.
	_, err = m.CommentByID(ctx, keep.ID)
	require.NoError(t, err)

	comments, details, err := m.ListComments(ctx, map[string]any{"blogId": blog.ID}, query.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Empty(t, comments)
	require.Equal(t, int64(0), details.TotalCount)
}

func TestTokens_Lifecycle(t *testing.T) {
	m := startMongo(t)
	ctx := context.Background()

	uid := primitive.NewObjectID()

	token, err := m.SaveToken(ctx, &models.Token{UserID: uid, Token: "key-1"})
	require.NoError(t, err)
	require.False(t, token.ID.IsZero())

	got, err := m.TokenByKey(ctx, "key-1")
	require.NoError(t, err)
	require.Equal(t, uid, got.UserID)

	got, err = m.TokenByUser(ctx, uid)
	require.NoError(t, err)
	require.Equal(t, "key-1", got.Token)

	// Уникальность значения токена.
	_, err = m.SaveToken(ctx, &models.Token{UserID: primitive.NewObjectID(), Token: "key-1"})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	deleted, err := m.DeleteTokenByKey(ctx, "key-1")
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = m.DeleteTokenByKey(ctx, "key-1")
	require.NoError(t, err)
	require.False(t, deleted)

	_, err = m.TokenByKey(ctx, "key-1")
	require.ErrorIs(t, err, storage.ErrNotFound)
}
