package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MustSel/blog-api/internal/httperr"
	"github.com/MustSel/blog-api/internal/service"
)

type categoryRequest struct {
	Name string `json:"name"`
}

// ListCategories — GET /categories.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, details, err := h.svc.ListCategories(r.Context(), r.URL.RawQuery)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeList(w, http.StatusOK, categories, details)
}

// CreateCategory — POST /categories.
func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryRequest
	if err := decode(r, &in); err != nil {
		httperr.Write(w, r, service.ErrInvalidArgument)
		return
	}

	category, err := h.svc.CreateCategory(r.Context(), service.CategoryInput{Name: in.Name})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, category)
}

// CategoryByID — GET /categories/{id}.
func (h *Handlers) CategoryByID(w http.ResponseWriter, r *http.Request) {
	category, err := h.svc.CategoryByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusOK, category)
}

// UpdateCategory — PUT/PATCH /categories/{id}.
func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryRequest
	if err := decode(r, &in); err != nil {
		httperr.Write(w, r, service.ErrInvalidArgument)
		return
	}

	category, err := h.svc.UpdateCategory(r.Context(), chi.URLParam(r, "id"), service.CategoryInput{Name: in.Name})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusAccepted, category)
}

// DeleteCategory — DELETE /categories/{id}.
func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
