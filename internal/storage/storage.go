// storage описывает контракт слоя хранения blog-api.
package storage

import (
	"context"
	"errors"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MustSel/blog-api/internal/models"
	"github.com/MustSel/blog-api/internal/query"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — конфликт уникальности (username/email/name).
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidArgument — некорректные параметры обращения к хранилищу.
	ErrInvalidArgument = errors.New("invalid argument")
)

// UsersStorage — операции над коллекцией users.
type UsersStorage interface {
	// ListUsers возвращает страницу пользователей по дескриптору q.
	ListUsers(ctx context.Context, q query.Params) ([]models.User, *models.ListDetails, error)

	// SaveUser вставляет нового пользователя.
	// Конфликт уникальности username/email — ErrAlreadyExists.
	SaveUser(ctx context.Context, user *models.User) (*models.User, error)

	// UserByID возвращает пользователя по идентификатору; иначе ErrNotFound.
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	// UserByLogin ищет пользователя по username ИЛИ email; иначе ErrNotFound.
	UserByLogin(ctx context.Context, username, email string) (*models.User, error)

	// UpdateUser применяет $set по allow-list полей и возвращает новый документ.
	UpdateUser(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.User, error)

	// DeleteUser удаляет пользователя; если записи нет — ErrNotFound.
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

// BlogsStorage — операции над коллекцией blogs.
type BlogsStorage interface {
	// ListBlogs возвращает страницу блогов. base — серверный фильтр
	// видимости; он ANDится с пользовательскими constraint'ами и не может
	// быть перекрыт query string. Population: автор и рубрика.
	ListBlogs(ctx context.Context, base map[string]any, q query.Params) ([]models.Blog, *models.ListDetails, error)

	// SaveBlog вставляет новый блог.
	SaveBlog(ctx context.Context, blog *models.Blog) (*models.Blog, error)

	// BlogByID возвращает блог без побочных эффектов и population.
	BlogByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)

	// ReadBlog атомарно инкрементирует countOfVisitors и возвращает
	// обновлённый документ с population: автор, рубрика и комментарии
	// с их авторами.
	ReadBlog(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)

	// UpdateBlog применяет $set по allow-list полей и возвращает новый документ.
	UpdateBlog(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Blog, error)

	// DeleteBlog удаляет блог; если записи нет — ErrNotFound.
	DeleteBlog(ctx context.Context, id primitive.ObjectID) error

	// AddBlogLike / RemoveBlogLike — членство userID в множестве likes
	// ($addToSet / $pull). Возвращают актуальный размер множества.
	AddBlogLike(ctx context.Context, blogID, userID primitive.ObjectID) (int64, error)
	RemoveBlogLike(ctx context.Context, blogID, userID primitive.ObjectID) (int64, error)

	// PushBlogComment / PullBlogComment — каскадная поддержка списка
	// comments у родительского блога.
	PushBlogComment(ctx context.Context, blogID, commentID primitive.ObjectID) error
	PullBlogComment(ctx context.Context, blogID, commentID primitive.ObjectID) error
}

// CategoriesStorage — операции над коллекцией categories.
type CategoriesStorage interface {
	ListCategories(ctx context.Context, q query.Params) ([]models.Category, *models.ListDetails, error)

	// SaveCategory вставляет рубрику; дубликат имени — ErrAlreadyExists.
	SaveCategory(ctx context.Context, category *models.Category) (*models.Category, error)

	CategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)

	UpdateCategory(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Category, error)

	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
}

// CommentsStorage — операции над коллекцией comments.
type CommentsStorage interface {
	// ListComments возвращает страницу комментариев. base — серверный
	// фильтр (например, по blogId). Population: автор (username).
	ListComments(ctx context.Context, base map[string]any, q query.Params) ([]models.Comment, *models.ListDetails, error)

	SaveComment(ctx context.Context, comment *models.Comment) (*models.Comment, error)

	// CommentByID возвращает комментарий с population автора и блога.
	CommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)

	UpdateComment(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Comment, error)

	DeleteComment(ctx context.Context, id primitive.ObjectID) error

	// DeleteCommentsByBlog удаляет все комментарии блога (каскад),
	// возвращает количество удалённых.
	DeleteCommentsByBlog(ctx context.Context, blogID primitive.ObjectID) (int64, error)
}

// TokensStorage — операции над коллекцией tokens (простые токены).
type TokensStorage interface {
	// TokenByKey возвращает токен по его значению; иначе ErrNotFound.
	TokenByKey(ctx context.Context, key string) (*models.Token, error)

	// TokenByUser возвращает токен пользователя; иначе ErrNotFound.
	TokenByUser(ctx context.Context, userID primitive.ObjectID) (*models.Token, error)

	// SaveToken вставляет новый токен.
	SaveToken(ctx context.Context, token *models.Token) (*models.Token, error)

	// DeleteTokenByKey удаляет токен; сообщает, была ли удалена запись.
	DeleteTokenByKey(ctx context.Context, key string) (bool, error)
}

// Storage — совокупный контракт документного хранилища.
type Storage interface {
	UsersStorage
	BlogsStorage
	CategoriesStorage
	CommentsStorage
	TokensStorage

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}

// ImagesStorage — внешнее файловое хранилище: принимает бинарь,
// возвращает стабильный публичный URL. Ядро использует только URL.
type ImagesStorage interface {
	// UploadImage загружает объект и возвращает публичный URL.
	// Нарушение ограничений типа/размера — ErrInvalidArgument.
	UploadImage(ctx context.Context, name, contentType string, size int64, r io.Reader) (string, error)
}
