package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category — рубрика блога. Владельца нет: мутации доступны только админу.
type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CategorySummary — проекция рубрики для population.
type CategorySummary struct {
	ID   primitive.ObjectID `bson:"_id" json:"_id"`
	Name string             `bson:"name" json:"name"`
}
