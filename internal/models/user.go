// models содержит доменные сущности blog-api.
//
// Имена bson-полей намеренно в camelCase — так данные совместимы с уже
// существующими коллекциями (userId, isPublish, countOfVisitors и т.д.).
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User — учётная запись пользователя.
// Password хранится как bcrypt-хэш и наружу не сериализуется.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"-"`
	Email     string             `bson:"email" json:"email"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Bio       string             `bson:"bio,omitempty" json:"bio,omitempty"`
	City      string             `bson:"city,omitempty" json:"city,omitempty"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	IsStaff   bool               `bson:"isStaff" json:"isStaff"`
	IsAdmin   bool               `bson:"isAdmin" json:"isAdmin"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserSummary — проекция пользователя для population
// (встраивается в блоги и комментарии).
type UserSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Username string             `bson:"username" json:"username"`
	Image    string             `bson:"image,omitempty" json:"image,omitempty"`
}
