package middleware

import (
	"net/http"

	"github.com/MustSel/blog-api/internal/httperr"
	"github.com/MustSel/blog-api/internal/models"
	"github.com/MustSel/blog-api/internal/service"
)

// RequireCapability гейтирует маршрут по способности.
// Нет CapLogin — 401; способность отсутствует у аутентифицированного — 403.
func RequireCapability(c models.Capability) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caps := CapabilitiesFrom(r.Context())

			if !caps.Has(models.CapLogin) {
				httperr.Write(w, r, service.ErrUnauthenticated)
				return
			}

			if !caps.Has(c) {
				httperr.Write(w, r, service.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireLogin — маршрут доступен любому аутентифицированному пользователю.
func RequireLogin() Middleware {
	return RequireCapability(models.CapLogin)
}

// RequireAdmin — маршрут доступен только администратору.
func RequireAdmin() Middleware {
	return RequireCapability(models.CapAdmin)
}
