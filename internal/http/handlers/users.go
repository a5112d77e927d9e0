package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MustSel/blog-api/internal/http/middleware"
	"github.com/MustSel/blog-api/internal/httperr"
	"github.com/MustSel/blog-api/internal/service"
)

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Image     string `json:"image"`
	Bio       string `json:"bio"`
	City      string `json:"city"`
}

type updateUserRequest struct {
	Password    string  `json:"password"`
	NewPassword *string `json:"newPassword"`
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Image       *string `json:"image"`
	Bio         *string `json:"bio"`
	City        *string `json:"city"`
	IsAdmin     *bool   `json:"isAdmin"`
	IsStaff     *bool   `json:"isStaff"`
	IsActive    *bool   `json:"isActive"`
}

// ListUsers — GET /users.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, details, err := h.svc.ListUsers(r.Context(), r.URL.RawQuery)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeList(w, http.StatusOK, users, details)
}

// Register — POST /users. Успех открывает сессию (auto-login).
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decode(r, &in); err != nil {
		httperr.Write(w, r, service.ErrInvalidArgument)
		return
	}

	session, err := h.svc.Register(r.Context(), service.RegisterInput{
		Username:  in.Username,
		Password:  in.Password,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Image:     in.Image,
		Bio:       in.Bio,
		City:      in.City,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, session)
}

// UserByID — GET /users/{id}.
func (h *Handlers) UserByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.UserByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusOK, user)
}

// UpdateUser — PUT/PATCH /users/{id}.
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var in updateUserRequest
	if err := decode(r, &in); err != nil {
		httperr.Write(w, r, service.ErrInvalidArgument)
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), middleware.IdentityFrom(r.Context()), chi.URLParam(r, "id"), service.UpdateUserInput{
		Password:    in.Password,
		NewPassword: in.NewPassword,
		Username:    in.Username,
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Image:       in.Image,
		Bio:         in.Bio,
		City:        in.City,
		IsAdmin:     in.IsAdmin,
		IsStaff:     in.IsStaff,
		IsActive:    in.IsActive,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusAccepted, user)
}

// DeleteUser — DELETE /users/{id}.
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
