package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MustSel/blog-api/internal/models"
	"github.com/MustSel/blog-api/internal/service"
)

func TestStatus_Taxonomy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{service.ErrInvalidArgument, http.StatusBadRequest},
		{service.ErrAlreadyExists, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrUnauthenticated, http.StatusUnauthorized},
		{service.ErrAccountInactive, http.StatusUnauthorized},
		{service.ErrInvalidToken, http.StatusUnauthorized},
		{service.ErrTokenExpired, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrInternal, http.StatusInternalServerError},
		{errors.New("unknown"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, Status(tc.err), "err=%v", tc.err)
	}
}

func TestStatus_WrappedErrors(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("service/blogs/UpdateBlog: %w", service.ErrForbidden)
	require.Equal(t, http.StatusForbidden, Status(wrapped))
}

func TestWrite_ErrorEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/blogs/x", nil)

	Write(rec, req, service.ErrNotFound)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Error)
	require.Equal(t, "not found", body.Message)
}

func TestWrite_InternalHidesDetails(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	Write(rec, req, errors.New("pq: secret connection string"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "internal error", body.Message)
	require.NotContains(t, rec.Body.String(), "secret")
}

func TestWriteData_SuccessEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()

	details := &models.ListDetails{TotalCount: 5, PageCount: 1, CurrentPage: 1, Limit: 20}
	WriteData(rec, http.StatusOK, []string{"a", "b"}, details)

	var body struct {
		Error   bool                `json:"error"`
		Data    []string            `json:"data"`
		Details *models.ListDetails `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Error)
	require.Equal(t, []string{"a", "b"}, body.Data)
	require.Equal(t, int64(5), body.Details.TotalCount)
}

func TestWriteData_OmitsDetailsWhenNil(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteData(rec, http.StatusCreated, map[string]string{"x": "y"}, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotContains(t, rec.Body.String(), "details")
}
