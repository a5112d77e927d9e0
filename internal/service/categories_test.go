package service

import (
	"context"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MustSel/blog-api/internal/models"
	"github.com/MustSel/blog-api/internal/storage"
)

func TestCreateCategory(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().SaveCategory(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *models.Category) (*models.Category, error) {
			require.Equal(t, "tech", c.Name)
			c.ID = primitive.NewObjectID()
			return c, nil
		})

	cat, err := svc.CreateCategory(context.Background(), CategoryInput{Name: " tech "})
	require.NoError(t, err)
	require.False(t, cat.ID.IsZero())

	_, err = svc.CreateCategory(context.Background(), CategoryInput{Name: "  "})
	require.ErrorIs(t, err, ErrInvalidArgument)

	st.EXPECT().SaveCategory(gomock.Any(), gomock.Any()).Return(nil, storage.ErrAlreadyExists)
	_, err = svc.CreateCategory(context.Background(), CategoryInput{Name: "tech"})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUpdateCategory(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	id := primitive.NewObjectID()

	st.EXPECT().UpdateCategory(gomock.Any(), id, map[string]any{"name": "life"}).
		Return(&models.Category{ID: id, Name: "life"}, nil)

	cat, err := svc.UpdateCategory(context.Background(), id.Hex(), CategoryInput{Name: "life"})
	require.NoError(t, err)
	require.Equal(t, "life", cat.Name)

	st.EXPECT().UpdateCategory(gomock.Any(), id, gomock.Any()).Return(nil, storage.ErrNotFound)
	_, err = svc.UpdateCategory(context.Background(), id.Hex(), CategoryInput{Name: "life"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateCategory(context.Background(), "garbage", CategoryInput{Name: "life"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCategory(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	id := primitive.NewObjectID()

	st.EXPECT().DeleteCategory(gomock.Any(), id).Return(nil)
	require.NoError(t, svc.DeleteCategory(context.Background(), id.Hex()))

	st.EXPECT().DeleteCategory(gomock.Any(), id).Return(storage.ErrNotFound)
	require.ErrorIs(t, svc.DeleteCategory(context.Background(), id.Hex()), ErrNotFound)
}

func TestUploadImage(t *testing.T) {
	t.Parallel()

	svc, _, images, ctrl := newSvc(t)
	defer ctrl.Finish()

	r := strings.NewReader("png-bytes")

	images.EXPECT().UploadImage(gomock.Any(), "a.png", "image/png", int64(9), r).
		Return("http://cdn.local/blog/uploads/x.png", nil)

	url, err := svc.UploadImage(context.Background(), "a.png", "image/png", 9, r)
	require.NoError(t, err)
	require.Equal(t, "http://cdn.local/blog/uploads/x.png", url)

	images.EXPECT().UploadImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", storage.ErrInvalidArgument)

	_, err = svc.UploadImage(context.Background(), "a.exe", "application/octet-stream", 9, r)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
