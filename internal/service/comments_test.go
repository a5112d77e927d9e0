package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MustSel/blog-api/internal/models"
	"github.com/MustSel/blog-api/internal/query"
	"github.com/MustSel/blog-api/internal/storage"
)

func TestCreateComment_OK(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := primitive.NewObjectID()
	blog := testBlog(primitive.NewObjectID())

	gomock.InOrder(
		st.EXPECT().BlogByID(gomock.Any(), blog.ID).Return(blog, nil),
		st.EXPECT().SaveComment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *models.Comment) (*models.Comment, error) {
				require.Equal(t, uid, c.UserID)
				require.Equal(t, blog.ID, c.BlogID)
				require.Equal(t, "nice post", c.Comment)
				c.ID = primitive.NewObjectID()
				return c, nil
			}),
		st.EXPECT().PushBlogComment(gomock.Any(), blog.ID, gomock.Any()).Return(nil),
	)

	comment, err := svc.CreateComment(context.Background(), &models.Identity{ID: uid}, CreateCommentInput{
		BlogID:  blog.ID.Hex(),
		Comment: "  nice post  ",
	})
	require.NoError(t, err)
	require.False(t, comment.ID.IsZero())
}

func TestCreateComment_PushFailureDoesNotFailRequest(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := primitive.NewObjectID()
	blog := testBlog(primitive.NewObjectID())

	st.EXPECT().BlogByID(gomock.Any(), blog.ID).Return(blog, nil)
	st.EXPECT().SaveComment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *models.Comment) (*models.Comment, error) {
			c.ID = primitive.NewObjectID()
			return c, nil
		})
	st.EXPECT().PushBlogComment(gomock.Any(), blog.ID, gomock.Any()).Return(errors.New("blog vanished"))

	_, err := svc.CreateComment(context.Background(), &models.Identity{ID: uid}, CreateCommentInput{
		BlogID:  blog.ID.Hex(),
		Comment: "text",
	})
	require.NoError(t, err)
}

func TestCreateComment_Validation(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	ident := &models.Identity{ID: primitive.NewObjectID()}
	blogID := primitive.NewObjectID()

	_, err := svc.CreateComment(context.Background(), nil, CreateCommentInput{BlogID: blogID.Hex(), Comment: "x"})
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.CreateComment(context.Background(), ident, CreateCommentInput{BlogID: blogID.Hex(), Comment: "  "})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.CreateComment(context.Background(), ident, CreateCommentInput{BlogID: "bad", Comment: "x"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	st.EXPECT().BlogByID(gomock.Any(), blogID).Return(nil, storage.ErrNotFound)
	_, err = svc.CreateComment(context.Background(), ident, CreateCommentInput{BlogID: blogID.Hex(), Comment: "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListComments_BlogScope(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	blogID := primitive.NewObjectID()

	st.EXPECT().ListComments(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, base map[string]any, _ query.Params) ([]models.Comment, *models.ListDetails, error) {
			require.Equal(t, map[string]any{"blogId": blogID}, base)
			return []models.Comment{}, &models.ListDetails{}, nil
		})

	_, _, err := svc.ListComments(context.Background(), blogID.Hex(), "")
	require.NoError(t, err)

	// Без blogId — без серверного фильтра.
	st.EXPECT().ListComments(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, base map[string]any, _ query.Params) ([]models.Comment, *models.ListDetails, error) {
			require.Empty(t, base)
			return []models.Comment{}, &models.ListDetails{}, nil
		})

	_, _, err = svc.ListComments(context.Background(), "", "")
	require.NoError(t, err)
}

func TestUpdateComment_OwnershipGuard(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	owner := primitive.NewObjectID()
	comment := &models.Comment{
		ID:      primitive.NewObjectID(),
		UserID:  owner,
		BlogID:  primitive.NewObjectID(),
		Comment: "old",
	}

	st.EXPECT().CommentByID(gomock.Any(), comment.ID).Return(comment, nil)
	_, err := svc.UpdateComment(context.Background(), &models.Identity{ID: primitive.NewObjectID()}, comment.ID.Hex(), UpdateCommentInput{Comment: "new"})
	require.ErrorIs(t, err, ErrForbidden)

	st.EXPECT().CommentByID(gomock.Any(), comment.ID).Return(comment, nil)
	st.EXPECT().UpdateComment(gomock.Any(), comment.ID, map[string]any{"comment": "new"}).Return(comment, nil)
	_, err = svc.UpdateComment(context.Background(), &models.Identity{ID: owner}, comment.ID.Hex(), UpdateCommentInput{Comment: "new"})
	require.NoError(t, err)
}

func TestDeleteComment_PullsFromParentBlog(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	owner := primitive.NewObjectID()
	comment := &models.Comment{
		ID:     primitive.NewObjectID(),
		UserID: owner,
		BlogID: primitive.NewObjectID(),
	}

	gomock.InOrder(
		st.EXPECT().CommentByID(gomock.Any(), comment.ID).Return(comment, nil),
		st.EXPECT().DeleteComment(gomock.Any(), comment.ID).Return(nil),
		st.EXPECT().PullBlogComment(gomock.Any(), comment.BlogID, comment.ID).Return(nil),
	)

	err := svc.DeleteComment(context.Background(), &models.Identity{ID: owner}, comment.ID.Hex())
	require.NoError(t, err)
}
