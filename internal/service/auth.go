package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MustSel/blog-api/internal/models"
	"github.com/MustSel/blog-api/internal/storage"
	"github.com/MustSel/blog-api/pkg/log"
)

// LoginInput — входные данные логина. Достаточно одного из
// Username/Email; при наличии обоих поиск идёт по любому совпадению.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// AuthSession — результат успешной аутентификации: простой токен
// (один на пользователя) и JWT-пара.
type AuthSession struct {
	User         *models.User `json:"user"`
	Token        string       `json:"token"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// LogoutResult — итог выхода. Deleted=false означает, что простой токен
// уже отсутствовал либо выход выполнялся по JWT (stateless, удалять нечего).
type LogoutResult struct {
	Message string `json:"message"`
	Deleted bool   `json:"deleted"`
}

// Login аутентифицирует пользователя по паре логин/пароль.
//
// Семантика ошибок намеренно не различает "пользователь не найден" и
// "пароль неверен" — обе отдаются как ErrInvalidCredentials.
// Деактивированная учётка — ErrAccountInactive.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthSession, error) {
	const op = "service/auth/Login"

	lg := log.From(ctx)

	if (in.Username == "" && in.Email == "") || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.storage.UserByLogin(ctx, in.Username, in.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		lg.Error("failed to fetch user by login", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	session, err := s.issueSession(ctx, user)
	if err != nil {
		lg.Error("failed to issue session", "user_id", user.ID.Hex(), "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	lg.Info("user logged in", "user_id", user.ID.Hex())

	return session, nil
}

// issueSession собирает AuthSession: переиспользует существующий простой
// токен пользователя (или создаёт новый) и выпускает JWT-пару.
func (s *Service) issueSession(ctx context.Context, user *models.User) (*AuthSession, error) {
	const op = "service/auth/issueSession"

	token, err := s.storage.TokenByUser(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		key, err := newTokenKey()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		token, err = s.storage.SaveToken(ctx, &models.Token{
			UserID: user.ID,
			Token:  key,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	now := time.Now().UTC()

	access, err := s.generateAccessToken(user, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refresh, err := s.generateRefreshToken(user, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &AuthSession{
		User:         user,
		Token:        token.Token,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Refresh выпускает новый access-токен по refresh-токену.
// Зашитый в refresh-токен хэш пароля сверяется с актуальным: после смены
// пароля все ранее выданные refresh-токены недействительны.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	const op = "service/auth/Refresh"

	lg := log.From(ctx)

	if refreshToken == "" {
		return "", ErrInvalidToken
	}

	uid, pwdHash, err := s.validateRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	user, err := s.storage.UserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrInvalidToken
		}

		lg.Error("failed to fetch user", "user_id", uid.Hex(), "err", err)
		return "", fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if user.Password != pwdHash {
		return "", ErrInvalidToken
	}

	if !user.IsActive {
		return "", ErrAccountInactive
	}

	access, err := s.generateAccessToken(user, time.Now().UTC())
	if err != nil {
		lg.Error("failed to generate access token", "user_id", uid.Hex(), "err", err)
		return "", fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return access, nil
}

// Logout завершает сессию по простому токену: удаляет его из хранилища.
// Для JWT-сессий операция stateless — сервер ничего не хранит,
// клиенту достаточно забыть токены.
func (s *Service) Logout(ctx context.Context, tokenKey string) (*LogoutResult, error) {
	const op = "service/auth/Logout"

	lg := log.From(ctx)

	if tokenKey == "" {
		return &LogoutResult{Message: "logged out", Deleted: false}, nil
	}

	deleted, err := s.storage.DeleteTokenByKey(ctx, tokenKey)
	if err != nil {
		lg.Error("failed to delete token", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return &LogoutResult{Message: "logged out", Deleted: deleted}, nil
}

// IdentityByToken разрешает Identity по значению простого токена.
// Несуществующий токен или деактивированная учётка — ErrInvalidToken /
// ErrAccountInactive.
func (s *Service) IdentityByToken(ctx context.Context, key string) (*models.Identity, error) {
	const op = "service/auth/IdentityByToken"

	token, err := s.storage.TokenByKey(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidToken
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	user, err := s.storage.UserByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidToken
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return &models.Identity{
		ID:       user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		IsStaff:  user.IsStaff,
	}, nil
}

// IdentityByBearer разрешает Identity из access-токена (без обращения к БД).
func (s *Service) IdentityByBearer(_ context.Context, tokenStr string) (*models.Identity, error) {
	return s.validateAccessToken(tokenStr)
}
