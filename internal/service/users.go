package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/MustSel/blog-api/internal/models"
	"github.com/MustSel/blog-api/internal/query"
	"github.com/MustSel/blog-api/internal/storage"
	"github.com/MustSel/blog-api/pkg/log"
)

// RegisterInput — входные данные регистрации. Поля соответствуют
// публичной части профиля; служебные флаги (isAdmin/isStaff/isActive)
// клиентом не задаются.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Image     string
	Bio       string
	City      string
}

// UpdateUserInput — частичное обновление профиля. nil-поля не трогаются.
// Password — текущий пароль, обязателен для любого обновления.
// IsAdmin/IsStaff/IsActive применяются только если инициатор — админ.
type UpdateUserInput struct {
	Password    string
	NewPassword *string
	Username    *string
	Email       *string
	FirstName   *string
	LastName    *string
	Image       *string
	Bio         *string
	City        *string
	IsAdmin     *bool
	IsStaff     *bool
	IsActive    *bool
}

// ListUsers возвращает страницу пользователей по строке запроса.
// Серверного фильтра видимости нет: наружу уходит публичная проекция
// (Password не сериализуется).
func (s *Service) ListUsers(ctx context.Context, rawQuery string) ([]models.User, *models.ListDetails, error) {
	const op = "service/users/ListUsers"

	q := query.Parse(rawQuery, usersSchema, s.limits())

	users, details, err := s.storage.ListUsers(ctx, q)
	if err != nil {
		log.From(ctx).Error("failed to list users", "err", err)
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return users, details, nil
}

// Register создаёт пользователя и сразу открывает сессию (auto-login).
// Валидация: обязательные поля, формат email, политика пароля.
// Конфликт username/email — ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthSession, error) {
	const op = "service/users/Register"

	lg := log.From(ctx)

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if in.Username == "" || in.Email == "" || in.FirstName == "" || in.LastName == "" {
		return nil, ErrInvalidArgument
	}

	if !validEmail(in.Email) {
		return nil, ErrInvalidArgument
	}

	if !validPassword(in.Password) {
		return nil, ErrInvalidArgument
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		lg.Error("failed to hash password", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	user, err := s.storage.SaveUser(ctx, &models.User{
		Username:  in.Username,
		Password:  string(hash),
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Image:     in.Image,
		Bio:       in.Bio,
		City:      in.City,
		IsActive:  true,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, ErrAlreadyExists
		}

		lg.Error("failed to save user", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	session, err := s.issueSession(ctx, user)
	if err != nil {
		lg.Error("failed to issue session", "user_id", user.ID.Hex(), "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	lg.Info("user registered", "user_id", user.ID.Hex())

	return session, nil
}

// UserByID возвращает пользователя по строковому идентификатору.
// Некорректный hex трактуется как отсутствие сущности.
func (s *Service) UserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "service/users/UserByID"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	user, err := s.storage.UserByID(ctx, oid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}

		log.From(ctx).Error("failed to fetch user", "user_id", id, "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return user, nil
}

// UpdateUser обновляет профиль. Не-админ всегда обновляет СЕБЯ независимо
// от id в пути; админ — любого пользователя. Любое обновление требует
// текущий пароль инициатора цели; смена пароля проходит политику.
func (s *Service) UpdateUser(ctx context.Context, ident *models.Identity, id string, in UpdateUserInput) (*models.User, error) {
	const op = "service/users/UpdateUser"

	lg := log.From(ctx)

	if ident == nil {
		return nil, ErrUnauthenticated
	}

	targetID := ident.ID
	if ident.IsAdmin {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, ErrNotFound
		}
		targetID = oid
	}

	user, err := s.storage.UserByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}

		lg.Error("failed to fetch user", "user_id", targetID.Hex(), "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, ErrInvalidArgument
	}

	fields := map[string]any{}

	if in.Username != nil && strings.TrimSpace(*in.Username) != "" {
		fields["username"] = strings.TrimSpace(*in.Username)
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if !validEmail(email) {
			return nil, ErrInvalidArgument
		}
		fields["email"] = email
	}
	if in.FirstName != nil {
		fields["firstName"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		fields["lastName"] = strings.TrimSpace(*in.LastName)
	}
	if in.Image != nil {
		fields["image"] = *in.Image
	}
	if in.Bio != nil {
		fields["bio"] = *in.Bio
	}
	if in.City != nil {
		fields["city"] = *in.City
	}

	if in.NewPassword != nil {
		if !validPassword(*in.NewPassword) {
			return nil, ErrInvalidArgument
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(*in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			lg.Error("failed to hash password", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}

		fields["password"] = string(hash)
	}

	// Служебные флаги меняет только админ; для остальных они молча
	// отбрасываются, а не считаются ошибкой.
	if ident.IsAdmin {
		if in.IsAdmin != nil {
			fields["isAdmin"] = *in.IsAdmin
		}
		if in.IsStaff != nil {
			fields["isStaff"] = *in.IsStaff
		}
		if in.IsActive != nil {
			fields["isActive"] = *in.IsActive
		}
	}

	updated, err := s.storage.UpdateUser(ctx, targetID, fields)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, storage.ErrAlreadyExists):
			return nil, ErrAlreadyExists
		}

		lg.Error("failed to update user", "user_id", targetID.Hex(), "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	lg.Info("user updated", "user_id", targetID.Hex())

	return updated, nil
}

// DeleteUser удаляет пользователя. Маршрут гейтируется CapAdmin.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	const op = "service/users/DeleteUser"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	if err := s.storage.DeleteUser(ctx, oid); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}

		log.From(ctx).Error("failed to delete user", "user_id", id, "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	log.From(ctx).Info("user deleted", "user_id", id)

	return nil
}

// validEmail проверяет формат адреса (RFC 5322-парсер стандартной библиотеки).
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// validPassword — политика пароля: не короче 8 символов и хотя бы по
// одному символу из классов: строчная, прописная, цифра, спецсимвол.
func validPassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}

	return lower && upper && digit && special
}
