package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MustSel/blog-api/internal/http/middleware"
	"github.com/MustSel/blog-api/internal/httperr"
	"github.com/MustSel/blog-api/internal/service"
)

type createCommentRequest struct {
	BlogID  string `json:"blogId"`
	Comment string `json:"comment"`
}

type updateCommentRequest struct {
	Comment string `json:"comment"`
}

// ListComments — GET /comments. Опциональное сужение ?blogId=<id>.
func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, details, err := h.svc.ListComments(r.Context(), r.URL.Query().Get("blogId"), r.URL.RawQuery)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeList(w, http.StatusOK, comments, details)
}

// CreateComment — POST /comments.
func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	var in createCommentRequest
	if err := decode(r, &in); err != nil {
		httperr.Write(w, r, service.ErrInvalidArgument)
		return
	}

	comment, err := h.svc.CreateComment(r.Context(), middleware.IdentityFrom(r.Context()), service.CreateCommentInput{
		BlogID:  in.BlogID,
		Comment: in.Comment,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, comment)
}

// CommentByID — GET /comments/{id}.
func (h *Handlers) CommentByID(w http.ResponseWriter, r *http.Request) {
	comment, err := h.svc.CommentByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusOK, comment)
}

// UpdateComment — PUT/PATCH /comments/{id}.
func (h *Handlers) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var in updateCommentRequest
	if err := decode(r, &in); err != nil {
		httperr.Write(w, r, service.ErrInvalidArgument)
		return
	}

	comment, err := h.svc.UpdateComment(r.Context(), middleware.IdentityFrom(r.Context()), chi.URLParam(r, "id"), service.UpdateCommentInput{
		Comment: in.Comment,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusAccepted, comment)
}

// DeleteComment — DELETE /comments/{id}.
func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteComment(r.Context(), middleware.IdentityFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
