// http собирает REST-роутер blog-api: chi + цепочка middleware +
// регистрация маршрутов с гейтами по способностям (CapLogin/CapAdmin).
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MustSel/blog-api/internal/http/handlers"
	"github.com/MustSel/blog-api/internal/http/middleware"
	"github.com/MustSel/blog-api/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(),            // счётчики/гистограммы по шаблону маршрута
		middleware.Identify(svc),        // разрешаем Identity из Token/Bearer один раз на запрос
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(svc)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
// Гейты уровня маршрута проверяют только способности; владение ресурсом
// проверяет сервис при самой мутации.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	login := middleware.RequireLogin()
	admin := middleware.RequireAdmin()

	// auth
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)
	r.With(login).Post("/auth/logout", h.Logout)

	// users
	r.Get("/users", h.ListUsers)
	r.Post("/users", h.Register)
	r.With(login).Get("/users/{id}", h.UserByID)
	r.With(login).Put("/users/{id}", h.UpdateUser)
	r.With(login).Patch("/users/{id}", h.UpdateUser)
	r.With(admin).Delete("/users/{id}", h.DeleteUser)

	// blogs
	r.Get("/blogs", h.ListBlogs)
	r.With(login).Post("/blogs", h.CreateBlog)
	r.With(login).Get("/blogs/{id}", h.ReadBlog)
	r.With(login).Put("/blogs/{id}", h.UpdateBlog)
	r.With(login).Patch("/blogs/{id}", h.UpdateBlog)
	r.With(login).Delete("/blogs/{id}", h.DeleteBlog)
	r.With(login).Get("/blogs/{id}/getLike", h.BlogLike)
	r.With(login).Post("/blogs/{id}/postLike", h.ToggleBlogLike)

	// categories
	r.Get("/categories", h.ListCategories)
	r.Get("/categories/{id}", h.CategoryByID)
	r.With(admin).Post("/categories", h.CreateCategory)
	r.With(admin).Put("/categories/{id}", h.UpdateCategory)
	r.With(admin).Patch("/categories/{id}", h.UpdateCategory)
	r.With(admin).Delete("/categories/{id}", h.DeleteCategory)

	// comments
	r.Get("/comments", h.ListComments)
	r.With(login).Post("/comments", h.CreateComment)
	r.With(login).Get("/comments/{id}", h.CommentByID)
	r.With(login).Put("/comments/{id}", h.UpdateComment)
	r.With(login).Patch("/comments/{id}", h.UpdateComment)
	r.With(login).Delete("/comments/{id}", h.DeleteComment)

	// uploads
	r.With(login).Post("/upload", h.UploadImage)
}
