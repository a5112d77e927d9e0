package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MustSel/blog-api/internal/http/middleware"
	"github.com/MustSel/blog-api/internal/httperr"
	"github.com/MustSel/blog-api/internal/service"
)

type createBlogRequest struct {
	CategoryID string `json:"categoryId"`
	Title      string `json:"title"`
	Image      string `json:"image"`
	Content    string `json:"content"`
	IsPublish  *bool  `json:"isPublish"`
}

type updateBlogRequest struct {
	CategoryID *string `json:"categoryId"`
	Title      *string `json:"title"`
	Image      *string `json:"image"`
	Content    *string `json:"content"`
	IsPublish  *bool   `json:"isPublish"`
}

// ListBlogs — GET /blogs. По умолчанию только опубликованные;
// ?author=<id> (или filter[userId]) переключает на все блоги автора.
func (h *Handlers) ListBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, details, err := h.svc.ListBlogs(r.Context(), r.URL.Query().Get("author"), r.URL.RawQuery)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeList(w, http.StatusOK, blogs, details)
}

// CreateBlog — POST /blogs.
func (h *Handlers) CreateBlog(w http.ResponseWriter, r *http.Request) {
	var in createBlogRequest
	if err := decode(r, &in); err != nil {
		httperr.Write(w, r, service.ErrInvalidArgument)
		return
	}

	blog, err := h.svc.CreateBlog(r.Context(), middleware.IdentityFrom(r.Context()), service.CreateBlogInput{
		CategoryID: in.CategoryID,
		Title:      in.Title,
		Image:      in.Image,
		Content:    in.Content,
		IsPublish:  in.IsPublish,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, blog)
}

// ReadBlog — GET /blogs/{id}. Чтение учитывается счётчиком посещений.
func (h *Handlers) ReadBlog(w http.ResponseWriter, r *http.Request) {
	blog, err := h.svc.ReadBlog(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusOK, blog)
}

// UpdateBlog — PUT/PATCH /blogs/{id}.
func (h *Handlers) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	var in updateBlogRequest
	if err := decode(r, &in); err != nil {
		httperr.Write(w, r, service.ErrInvalidArgument)
		return
	}

	blog, err := h.svc.UpdateBlog(r.Context(), middleware.IdentityFrom(r.Context()), chi.URLParam(r, "id"), service.UpdateBlogInput{
		CategoryID: in.CategoryID,
		Title:      in.Title,
		Image:      in.Image,
		Content:    in.Content,
		IsPublish:  in.IsPublish,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusAccepted, blog)
}

// DeleteBlog — DELETE /blogs/{id}. Каскадно удаляет комментарии блога.
func (h *Handlers) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteBlog(r.Context(), middleware.IdentityFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BlogLike — GET /blogs/{id}/getLike.
func (h *Handlers) BlogLike(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.BlogLike(r.Context(), middleware.IdentityFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusOK, status)
}

// ToggleBlogLike — POST /blogs/{id}/postLike.
func (h *Handlers) ToggleBlogLike(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.ToggleBlogLike(r.Context(), middleware.IdentityFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusOK, status)
}
