package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment — комментарий к блогу.
// User/Blog — population-поля, в БД не хранятся.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	BlogID    primitive.ObjectID `bson:"blogId" json:"blogId"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	User *UserSummary `bson:"-" json:"user,omitempty"`
	Blog *BlogSummary `bson:"-" json:"blog,omitempty"`
}
