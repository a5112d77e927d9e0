package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MustSel/blog-api/internal/models"
	"github.com/MustSel/blog-api/internal/query"
	"github.com/MustSel/blog-api/internal/storage"
)

func testBlog(ownerID primitive.ObjectID) *models.Blog {
	return &models.Blog{
		ID:         primitive.NewObjectID(),
		UserID:     ownerID,
		CategoryID: primitive.NewObjectID(),
		Title:      "title",
		Content:    "content",
		IsPublish:  true,
		Likes:      []primitive.ObjectID{},
		Comments:   []primitive.ObjectID{},
	}
}

func TestListBlogs_DefaultScopeIsPublished(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().ListBlogs(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, base map[string]any, _ query.Params) ([]models.Blog, *models.ListDetails, error) {
			require.Equal(t, map[string]any{"isPublish": true}, base)
			return []models.Blog{}, &models.ListDetails{}, nil
		})

	_, _, err := svc.ListBlogs(context.Background(), "", "")
	require.NoError(t, err)
}

func TestListBlogs_AuthorScopeIncludesDrafts(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	author := primitive.NewObjectID()

	st.EXPECT().ListBlogs(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, base map[string]any, _ query.Params) ([]models.Blog, *models.ListDetails, error) {
			require.Equal(t, map[string]any{"userId": author}, base)
			require.NotContains(t, base, "isPublish")
			return []models.Blog{}, &models.ListDetails{}, nil
		}).Times(2)

	// Через параметр author.
	_, _, err := svc.ListBlogs(context.Background(), author.Hex(), "")
	require.NoError(t, err)

	// Через filter[userId] в query string.
	_, _, err = svc.ListBlogs(context.Background(), "", "filter[userId]="+author.Hex())
	require.NoError(t, err)
}

func TestListBlogs_GarbageAuthorYieldsEmptyScope(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().ListBlogs(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, base map[string]any, _ query.Params) ([]models.Blog, *models.ListDetails, error) {
			require.Equal(t, map[string]any{"userId": primitive.NilObjectID}, base)
			return []models.Blog{}, &models.ListDetails{}, nil
		})

	_, _, err := svc.ListBlogs(context.Background(), "not-hex", "")
	require.NoError(t, err)
}

func TestCreateBlog_OK(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	ident := &models.Identity{ID: primitive.NewObjectID()}
	catID := primitive.NewObjectID()

	st.EXPECT().SaveBlog(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b *models.Blog) (*models.Blog, error) {
			require.Equal(t, ident.ID, b.UserID)
			require.Equal(t, catID, b.CategoryID)
			require.True(t, b.IsPublish)
			return b, nil
		})

	blog, err := svc.CreateBlog(context.Background(), ident, CreateBlogInput{
		CategoryID: catID.Hex(),
		Title:      "  title  ",
		Content:    "content",
	})
	require.NoError(t, err)
	require.Equal(t, "title", blog.Title)
}

func TestCreateBlog_Validation(t *testing.T) {
	t.Parallel()

	svc, _, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	ident := &models.Identity{ID: primitive.NewObjectID()}
	catID := primitive.NewObjectID().Hex()

	_, err := svc.CreateBlog(context.Background(), nil, CreateBlogInput{CategoryID: catID, Title: "t", Content: "c"})
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.CreateBlog(context.Background(), ident, CreateBlogInput{CategoryID: "bad", Title: "t", Content: "c"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.CreateBlog(context.Background(), ident, CreateBlogInput{CategoryID: catID, Title: " ", Content: "c"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.CreateBlog(context.Background(), ident, CreateBlogInput{CategoryID: catID, Title: "t", Content: ""})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUpdateBlog_OwnershipGuard(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	owner := primitive.NewObjectID()
	blog := testBlog(owner)
	title := "new"

	// Чужой пользователь — 403, ресурс не изменяется.
	st.EXPECT().BlogByID(gomock.Any(), blog.ID).Return(blog, nil)
	_, err := svc.UpdateBlog(context.Background(), &models.Identity{ID: primitive.NewObjectID()}, blog.ID.Hex(), UpdateBlogInput{Title: &title})
	require.ErrorIs(t, err, ErrForbidden)

	// Владелец — OK.
	st.EXPECT().BlogByID(gomock.Any(), blog.ID).Return(blog, nil)
	st.EXPECT().UpdateBlog(gomock.Any(), blog.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ primitive.ObjectID, fields map[string]any) (*models.Blog, error) {
			require.Equal(t, "new", fields["title"])
			return blog, nil
		})
	_, err = svc.UpdateBlog(context.Background(), &models.Identity{ID: owner}, blog.ID.Hex(), UpdateBlogInput{Title: &title})
	require.NoError(t, err)

	// Админ — OK без владения.
	st.EXPECT().BlogByID(gomock.Any(), blog.ID).Return(blog, nil)
	st.EXPECT().UpdateBlog(gomock.Any(), blog.ID, gomock.Any()).Return(blog, nil)
	_, err = svc.UpdateBlog(context.Background(), &models.Identity{ID: primitive.NewObjectID(), IsAdmin: true}, blog.ID.Hex(), UpdateBlogInput{Title: &title})
	require.NoError(t, err)
}

func TestDeleteBlog_CascadesComments(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	owner := primitive.NewObjectID()
	blog := testBlog(owner)

	gomock.InOrder(
		st.EXPECT().BlogByID(gomock.Any(), blog.ID).Return(blog, nil),
		st.EXPECT().DeleteBlog(gomock.Any(), blog.ID).Return(nil),
		st.EXPECT().DeleteCommentsByBlog(gomock.Any(), blog.ID).Return(int64(3), nil),
	)

	err := svc.DeleteBlog(context.Background(), &models.Identity{ID: owner}, blog.ID.Hex())
	require.NoError(t, err)
}

func TestDeleteBlog_ForbiddenForStranger(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	blog := testBlog(primitive.NewObjectID())

	st.EXPECT().BlogByID(gomock.Any(), blog.ID).Return(blog, nil)

	err := svc.DeleteBlog(context.Background(), &models.Identity{ID: primitive.NewObjectID()}, blog.ID.Hex())
	require.ErrorIs(t, err, ErrForbidden)
}

func TestToggleBlogLike(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := primitive.NewObjectID()
	blog := testBlog(primitive.NewObjectID())

	// Ещё не лайкнут — добавление.
	st.EXPECT().BlogByID(gomock.Any(), blog.ID).Return(blog, nil)
	st.EXPECT().AddBlogLike(gomock.Any(), blog.ID, uid).Return(int64(4), nil)

	status, err := svc.ToggleBlogLike(context.Background(), &models.Identity{ID: uid}, blog.ID.Hex())
	require.NoError(t, err)
	require.True(t, status.DidUserLike)
	require.Equal(t, int64(4), status.CountOfLikes)

	// Уже лайкнут — снятие.
	liked := testBlog(blog.UserID)
	liked.ID = blog.ID
	liked.Likes = []primitive.ObjectID{uid}

	st.EXPECT().BlogByID(gomock.Any(), blog.ID).Return(liked, nil)
	st.EXPECT().RemoveBlogLike(gomock.Any(), blog.ID, uid).Return(int64(0), nil)

	status, err = svc.ToggleBlogLike(context.Background(), &models.Identity{ID: uid}, blog.ID.Hex())
	require.NoError(t, err)
	require.False(t, status.DidUserLike)
	require.Equal(t, int64(0), status.CountOfLikes)
}

func TestBlogLike_Status(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := primitive.NewObjectID()
	blog := testBlog(primitive.NewObjectID())
	blog.Likes = []primitive.ObjectID{uid, primitive.NewObjectID()}

	st.EXPECT().BlogByID(gomock.Any(), blog.ID).Return(blog, nil)

	status, err := svc.BlogLike(context.Background(), &models.Identity{ID: uid}, blog.ID.Hex())
	require.NoError(t, err)
	require.True(t, status.DidUserLike)
	require.Equal(t, int64(2), status.CountOfLikes)
}

func TestReadBlog_NotFound(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	id := primitive.NewObjectID()
	st.EXPECT().ReadBlog(gomock.Any(), id).Return(nil, storage.ErrNotFound)

	_, err := svc.ReadBlog(context.Background(), id.Hex())
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ReadBlog(context.Background(), "garbage")
	require.ErrorIs(t, err, ErrNotFound)
}
