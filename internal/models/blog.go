package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog — запись блога.
//   - Likes — множество пользователей, лайкнувших запись (toggle-семантика).
//   - Comments — идентификаторы комментариев; поддерживаются каскадом
//     при создании/удалении комментария.
//   - CountOfVisitors — монотонный счётчик, инкрементируется на каждом чтении.
//   - User/Category/CommentDetails — population-поля, в БД не хранятся.
type Blog struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	UserID          primitive.ObjectID   `bson:"userId" json:"userId"`
	CategoryID      primitive.ObjectID   `bson:"categoryId" json:"categoryId"`
	Title           string               `bson:"title" json:"title"`
	Image           string               `bson:"image,omitempty" json:"image,omitempty"`
	Content         string               `bson:"content" json:"content"`
	IsPublish       bool                 `bson:"isPublish" json:"isPublish"`
	Likes           []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments        []primitive.ObjectID `bson:"comments" json:"comments"`
	CountOfVisitors int64                `bson:"countOfVisitors" json:"countOfVisitors"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updatedAt"`

	User           *UserSummary     `bson:"-" json:"user,omitempty"`
	Category       *CategorySummary `bson:"-" json:"category,omitempty"`
	CommentDetails []Comment        `bson:"-" json:"commentDetails,omitempty"`
}

// BlogSummary — проекция блога для population в комментариях.
type BlogSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"_id"`
	Title string             `bson:"title" json:"title"`
}

// LikeStatus — состояние лайка для пары (пользователь, блог).
type LikeStatus struct {
	DidUserLike  bool  `json:"didUserLike"`
	CountOfLikes int64 `json:"countOfLikes"`
}
