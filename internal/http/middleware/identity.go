package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/MustSel/blog-api/internal/httperr"
	"github.com/MustSel/blog-api/internal/models"
)

type ctxKeyIdentity struct{}
type ctxKeyCapabilities struct{}

// IdentityResolver разрешает аутентификацию обеих схем.
type IdentityResolver interface {
	// IdentityByToken — по значению простого токена (поиск в хранилище).
	IdentityByToken(ctx context.Context, key string) (*models.Identity, error)
	// IdentityByBearer — по access-JWT (без обращения к хранилищу).
	IdentityByBearer(ctx context.Context, token string) (*models.Identity, error)
}

// Identify разрешает Identity из заголовка Authorization и кладёт его
// вместе с набором способностей в контекст. Поддерживаются две схемы:
//
//	Authorization: Token <key>    — простой токен
//	Authorization: Bearer <jwt>   — access-токен
//
// Отсутствие заголовка — анонимный запрос (пустой набор способностей).
// Предъявленные, но невалидные учётные данные — немедленный 401:
// молча даунгрейдить такой запрос до анонимного нельзя.
func Identify(resolver IdentityResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, value := splitAuthHeader(r.Header.Get("Authorization"))
			if value == "" {
				next.ServeHTTP(w, r)
				return
			}

			var (
				ident *models.Identity
				err   error
			)

			switch scheme {
			case "token":
				ident, err = resolver.IdentityByToken(r.Context(), value)
			case "bearer":
				ident, err = resolver.IdentityByBearer(r.Context(), value)
			default:
				next.ServeHTTP(w, r)
				return
			}

			if err != nil {
				httperr.Write(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyIdentity{}, ident)
			ctx = context.WithValue(ctx, ctxKeyCapabilities{}, models.CapabilitiesOf(ident))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom возвращает Identity из контекста (nil для анонимного запроса).
func IdentityFrom(ctx context.Context) *models.Identity {
	if v, ok := ctx.Value(ctxKeyIdentity{}).(*models.Identity); ok {
		return v
	}
	return nil
}

// CapabilitiesFrom возвращает набор способностей запроса.
func CapabilitiesFrom(ctx context.Context) models.Capabilities {
	if v, ok := ctx.Value(ctxKeyCapabilities{}).(models.Capabilities); ok {
		return v
	}
	return 0
}

// TokenKeyFrom извлекает значение простого токена из заголовка запроса
// (для logout). Пустая строка — схема не Token либо заголовка нет.
func TokenKeyFrom(r *http.Request) string {
	scheme, value := splitAuthHeader(r.Header.Get("Authorization"))
	if scheme != "token" {
		return ""
	}
	return value
}

func splitAuthHeader(header string) (scheme, value string) {
	if header == "" {
		return "", ""
	}

	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", ""
	}

	return strings.ToLower(parts[0]), parts[1]
}
