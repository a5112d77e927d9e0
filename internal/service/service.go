// service содержит бизнес-логику blog-api: аутентификацию (пароль +
// простой токен + JWT), CRUD по ресурсам с проверкой владения и
// списочные операции через дескриптор query.Params.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при
//     условии, что переданные хранилища потокобезопасны.
//   - Ошибки возвращаются сентинелами этого пакета и далее маппятся
//     HTTP-слоем на статусы (см. internal/httperr).
package service

import (
	"errors"

	"github.com/MustSel/blog-api/internal/config"
	"github.com/MustSel/blog-api/internal/query"
	"github.com/MustSel/blog-api/internal/storage"
)

var (
	// ErrInvalidArgument — отсутствуют/некорректны обязательные поля. HTTP 400.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь
	// не найден. HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated — запрос без валидной аутентификации. HTTP 401.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrAccountInactive — учётная запись деактивирована. HTTP 401.
	ErrAccountInactive = errors.New("account is not active")

	// ErrInvalidToken — токен (простой/access/refresh) некорректен
	// по формату/подписи или отсутствует в хранилище. HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrForbidden — аутентифицирован, но не хватает способности или
	// владения ресурсом. HTTP 403.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound — сущность отсутствует. HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists — конфликт уникальности (username/email/name).
	// HTTP 400 — таксономия API не различает конфликт и невалидный ввод.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInternal — внутренняя ошибка (стораж/БД/контекст). HTTP 500.
	ErrInternal = errors.New("internal")
)

// Allow-list полей, по которым ресурсы разрешают filter/search/sort.
// Неизвестные поля молча отбрасываются транслятором запросов.
var (
	usersSchema      = query.NewSchema("username", "email", "firstName", "lastName", "city", "isActive", "isStaff", "isAdmin", "createdAt")
	blogsSchema      = query.NewSchema("title", "content", "userId", "categoryId", "isPublish", "countOfVisitors", "createdAt", "updatedAt")
	categoriesSchema = query.NewSchema("name", "createdAt")
	commentsSchema   = query.NewSchema("comment", "userId", "blogId", "createdAt")
)

// Service — бизнес-логика blog-api.
type Service struct {
	storage storage.Storage
	images  storage.ImagesStorage
	cfg     config.Config
}

// New создаёт новый экземпляр Service.
func New(st storage.Storage, images storage.ImagesStorage, cfg config.Config) *Service {
	return &Service{
		storage: st,
		images:  images,
		cfg:     cfg,
	}
}

// limits — значения постраничной выдачи из конфига.
func (s *Service) limits() query.Limits {
	return query.Limits{
		Default: s.cfg.Limits.DefaultLimit,
		Max:     s.cfg.Limits.MaxLimit,
	}
}
