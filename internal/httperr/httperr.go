// httperr — маппинг ошибок сервиса на HTTP-статусы и конверты ответов.
//
// Таксономия API ограничена пятью статусами: 400/401/403/404/500.
// Конфликт уникальности отдаётся как 400 — отдельного 409 в API нет.
package httperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MustSel/blog-api/internal/models"
	"github.com/MustSel/blog-api/internal/service"
	"github.com/MustSel/blog-api/pkg/log"
)

// ErrorResponse — конверт ошибки: {error:true, message}.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// SuccessResponse — конверт успеха: {error:false, data, details?}.
type SuccessResponse struct {
	Error   bool                `json:"error"`
	Data    any                 `json:"data"`
	Details *models.ListDetails `json:"details,omitempty"`
}

// Status возвращает HTTP-статус для ошибки сервиса.
// Незнакомая ошибка считается внутренней.
func Status(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, service.ErrAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrAccountInactive),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// message подбирает клиентское сообщение. Для 500 детали ошибки наружу
// не уходят.
func message(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return "invalid request"
	case errors.Is(err, service.ErrAlreadyExists):
		return "already exists"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "invalid credentials"
	case errors.Is(err, service.ErrUnauthenticated):
		return "authentication required"
	case errors.Is(err, service.ErrAccountInactive):
		return "account is not active"
	case errors.Is(err, service.ErrInvalidToken):
		return "invalid token"
	case errors.Is(err, service.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, service.ErrForbidden):
		return "forbidden"
	case errors.Is(err, service.ErrNotFound):
		return "not found"
	default:
		return "internal error"
	}
}

// Write отдаёт ошибку сервиса клиенту в конверте {error:true, message}.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)

	if status == http.StatusInternalServerError {
		log.From(r.Context()).Error("request failed", "err", err)
	}

	writeJSON(w, status, ErrorResponse{Error: true, Message: message(err)})
}

// WriteData отдаёт успешный ответ в конверте {error:false, data, details?}.
func WriteData(w http.ResponseWriter, status int, data any, details *models.ListDetails) {
	writeJSON(w, status, SuccessResponse{Data: data, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}
