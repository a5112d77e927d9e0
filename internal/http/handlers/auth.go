package handlers

import (
	"net/http"

	"github.com/MustSel/blog-api/internal/http/middleware"
	"github.com/MustSel/blog-api/internal/httperr"
	"github.com/MustSel/blog-api/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// Login — POST /auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decode(r, &in); err != nil {
		httperr.Write(w, r, service.ErrInvalidCredentials)
		return
	}

	session, err := h.svc.Login(r.Context(), service.LoginInput{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusOK, session)
}

// Refresh — POST /auth/refresh.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decode(r, &in); err != nil {
		httperr.Write(w, r, service.ErrInvalidToken)
		return
	}

	access, err := h.svc.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusOK, refreshResponse{AccessToken: access})
}

// Logout — POST /auth/logout.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Logout(r.Context(), middleware.TokenKeyFrom(r))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusOK, result)
}
