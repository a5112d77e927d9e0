package service

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MustSel/blog-api/internal/models"
)

// CanMutate — ownership guard: мутация ресурса разрешена создателю
// или администратору. Применяется единообразно к Blog и Comment;
// у Category владельца нет — её мутации гейтирует CapAdmin на маршруте.
func CanMutate(id *models.Identity, ownerID primitive.ObjectID) bool {
	if id == nil {
		return false
	}

	return id.IsAdmin || id.ID == ownerID
}

// authorize возвращает ErrForbidden, если identity не вправе мутировать
// ресурс владельца ownerID. Ресурс при отказе не изменяется.
func (s *Service) authorize(id *models.Identity, ownerID primitive.ObjectID) error {
	if !CanMutate(id, ownerID) {
		return ErrForbidden
	}

	return nil
}
