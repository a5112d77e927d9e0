package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Token — простой непрозрачный токен (альтернатива JWT).
// Хранится один на пользователя, создаётся при первом логине
// и удаляется при logout.
type Token struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Token     string             `bson:"token" json:"token"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
