package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MustSel/blog-api/internal/models"
)

// leeway — допустимый перекос часов при валидации exp/nbf.
const leeway = 30 * time.Second

// accessClaims — полезная нагрузка access-токена. Несёт всё, что нужно
// для построения Identity без обращения к БД.
type accessClaims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	IsStaff  bool   `json:"isStaff"`
	jwt.RegisteredClaims
}

// refreshClaims — полезная нагрузка refresh-токена. Хэш пароля служит
// инвалидатором: смена пароля делает все выданные refresh-токены
// недействительными.
type refreshClaims struct {
	UserID       string `json:"uid"`
	PasswordHash string `json:"pwd"`
	jwt.RegisteredClaims
}

// generateAccessToken выпускает подписанный HS256 access-токен.
func (s *Service) generateAccessToken(user *models.User, now time.Time) (string, error) {
	const op = "service/token/generateAccessToken"

	claims := accessClaims{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		IsStaff:  user.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Auth.Issuer,
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Auth.AccessTokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.cfg.Auth.AccessSecret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// generateRefreshToken выпускает подписанный HS256 refresh-токен.
func (s *Service) generateRefreshToken(user *models.User, now time.Time) (string, error) {
	const op = "service/token/generateRefreshToken"

	claims := refreshClaims{
		UserID:       user.ID.Hex(),
		PasswordHash: user.Password,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Auth.Issuer,
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Auth.RefreshTokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.cfg.Auth.RefreshSecret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// validateAccessToken проверяет подпись/issuer/exp access-токена
// и восстанавливает Identity из claims без обращения к БД.
// Истёкший токен — ErrTokenExpired, любой другой дефект — ErrInvalidToken.
func (s *Service) validateAccessToken(tokenStr string) (*models.Identity, error) {
	var claims accessClaims

	_, err := jwt.ParseWithClaims(tokenStr, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}

			return []byte(s.cfg.Auth.AccessSecret), nil
		},
		jwt.WithIssuer(s.cfg.Auth.Issuer),
		jwt.WithLeeway(leeway),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, ErrInvalidToken
	}

	uid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &models.Identity{
		ID:       uid,
		Username: claims.Username,
		IsAdmin:  claims.IsAdmin,
		IsStaff:  claims.IsStaff,
	}, nil
}

// validateRefreshToken проверяет refresh-токен и возвращает userID
// и зашитый в claims хэш пароля.
func (s *Service) validateRefreshToken(tokenStr string) (primitive.ObjectID, string, error) {
	var claims refreshClaims

	_, err := jwt.ParseWithClaims(tokenStr, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}

			return []byte(s.cfg.Auth.RefreshSecret), nil
		},
		jwt.WithIssuer(s.cfg.Auth.Issuer),
		jwt.WithLeeway(leeway),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return primitive.NilObjectID, "", ErrTokenExpired
		}

		return primitive.NilObjectID, "", ErrInvalidToken
	}

	uid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, "", ErrInvalidToken
	}

	return uid, claims.PasswordHash, nil
}

// newTokenKey генерирует значение простого токена: 32 случайных байта
// в base64url без паддинга.
func newTokenKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("service/token/newTokenKey: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
