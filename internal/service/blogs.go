package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MustSel/blog-api/internal/models"
	"github.com/MustSel/blog-api/internal/query"
	"github.com/MustSel/blog-api/internal/storage"
	"github.com/MustSel/blog-api/pkg/log"
)

// CreateBlogInput — входные данные создания блога. Автор берётся из
// identity, счётчики и списки инициализируются нулевыми.
type CreateBlogInput struct {
	CategoryID string
	Title      string
	Image      string
	Content    string
	IsPublish  *bool
}

// UpdateBlogInput — частичное обновление блога. nil-поля не трогаются;
// userId/likes/comments/countOfVisitors через обновление недостижимы.
type UpdateBlogInput struct {
	CategoryID *string
	Title      *string
	Image      *string
	Content    *string
	IsPublish  *bool
}

// ListBlogs возвращает страницу блогов.
//
// Область видимости: по умолчанию только isPublish=true; если задан author
// (или filter[userId] в query string) — все блоги этого автора, включая
// черновики. Серверный фильтр не может быть перекрыт query string.
func (s *Service) ListBlogs(ctx context.Context, author, rawQuery string) ([]models.Blog, *models.ListDetails, error) {
	const op = "service/blogs/ListBlogs"

	q := query.Parse(rawQuery, blogsSchema, s.limits())

	if author == "" {
		if v, ok := q.Filter["userId"]; ok {
			author = v
		}
	}

	base := map[string]any{"isPublish": true}
	if author != "" {
		// Несуществующий/кривый id автора даёт пустую выдачу, а не ошибку.
		oid, err := primitive.ObjectIDFromHex(author)
		if err != nil {
			oid = primitive.NilObjectID
		}

		base = map[string]any{"userId": oid}
	}

	blogs, details, err := s.storage.ListBlogs(ctx, base, q)
	if err != nil {
		log.From(ctx).Error("failed to list blogs", "err", err)
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return blogs, details, nil
}

// CreateBlog создаёт блог от имени identity.
// categoryId обязателен и должен быть валидным идентификатором;
// title и content обязательны. isPublish по умолчанию true.
func (s *Service) CreateBlog(ctx context.Context, ident *models.Identity, in CreateBlogInput) (*models.Blog, error) {
	const op = "service/blogs/CreateBlog"

	lg := log.From(ctx)

	if ident == nil {
		return nil, ErrUnauthenticated
	}

	catID, err := primitive.ObjectIDFromHex(in.CategoryID)
	if err != nil {
		return nil, ErrInvalidArgument
	}

	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, ErrInvalidArgument
	}

	isPublish := true
	if in.IsPublish != nil {
		isPublish = *in.IsPublish
	}

	blog, err := s.storage.SaveBlog(ctx, &models.Blog{
		UserID:     ident.ID,
		CategoryID: catID,
		Title:      title,
		Image:      in.Image,
		Content:    content,
		IsPublish:  isPublish,
	})
	if err != nil {
		lg.Error("failed to save blog", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	lg.Info("blog created", "blog_id", blog.ID.Hex(), "user_id", ident.ID.Hex())

	return blog, nil
}

// ReadBlog возвращает блог с population и инкрементирует счётчик
// посещений. Каждое чтение учитывается, включая повторные.
func (s *Service) ReadBlog(ctx context.Context, id string) (*models.Blog, error) {
	const op = "service/blogs/ReadBlog"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	blog, err := s.storage.ReadBlog(ctx, oid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}

		log.From(ctx).Error("failed to read blog", "blog_id", id, "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return blog, nil
}

// UpdateBlog обновляет блог. Право мутации: владелец или админ;
// при отказе ресурс не изменяется.
func (s *Service) UpdateBlog(ctx context.Context, ident *models.Identity, id string, in UpdateBlogInput) (*models.Blog, error) {
	const op = "service/blogs/UpdateBlog"

	lg := log.From(ctx)

	blog, err := s.blogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ident, blog.UserID); err != nil {
		return nil, err
	}

	fields := map[string]any{}

	if in.CategoryID != nil {
		catID, err := primitive.ObjectIDFromHex(*in.CategoryID)
		if err != nil {
			return nil, ErrInvalidArgument
		}
		fields["categoryId"] = catID
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		fields["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Image != nil {
		fields["image"] = *in.Image
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) != "" {
		fields["content"] = strings.TrimSpace(*in.Content)
	}
	if in.IsPublish != nil {
		fields["isPublish"] = *in.IsPublish
	}

	updated, err := s.storage.UpdateBlog(ctx, blog.ID, fields)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}

		lg.Error("failed to update blog", "blog_id", id, "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	lg.Info("blog updated", "blog_id", id)

	return updated, nil
}

// DeleteBlog удаляет блог и каскадно — его комментарии.
// Каскад не транзакционен: при падении после удаления блога возможны
// осиротевшие комментарии, повторное удаление их добирает.
func (s *Service) DeleteBlog(ctx context.Context, ident *models.Identity, id string) error {
	const op = "service/blogs/DeleteBlog"

	lg := log.From(ctx)

	blog, err := s.blogByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorize(ident, blog.UserID); err != nil {
		return err
	}

	if err := s.storage.DeleteBlog(ctx, blog.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}

		lg.Error("failed to delete blog", "blog_id", id, "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	removed, err := s.storage.DeleteCommentsByBlog(ctx, blog.ID)
	if err != nil {
		lg.Error("failed to cascade delete comments", "blog_id", id, "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	lg.Info("blog deleted", "blog_id", id, "comments_removed", removed)

	return nil
}

// BlogLike возвращает состояние лайка для пары (identity, блог).
func (s *Service) BlogLike(ctx context.Context, ident *models.Identity, id string) (*models.LikeStatus, error) {
	if ident == nil {
		return nil, ErrUnauthenticated
	}

	blog, err := s.blogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.LikeStatus{
		DidUserLike:  containsID(blog.Likes, ident.ID),
		CountOfLikes: int64(len(blog.Likes)),
	}, nil
}

// ToggleBlogLike переключает членство identity в множестве лайков блога.
// Повторное применение возвращает исходное состояние; дубликатов не бывает.
func (s *Service) ToggleBlogLike(ctx context.Context, ident *models.Identity, id string) (*models.LikeStatus, error) {
	const op = "service/blogs/ToggleBlogLike"

	lg := log.From(ctx)

	if ident == nil {
		return nil, ErrUnauthenticated
	}

	blog, err := s.blogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	liked := containsID(blog.Likes, ident.ID)

	var count int64
	if liked {
		count, err = s.storage.RemoveBlogLike(ctx, blog.ID, ident.ID)
	} else {
		count, err = s.storage.AddBlogLike(ctx, blog.ID, ident.ID)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}

		lg.Error("failed to toggle like", "blog_id", id, "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return &models.LikeStatus{
		DidUserLike:  !liked,
		CountOfLikes: count,
	}, nil
}

// blogByID — общий лукап блога по строковому id с маппингом ошибок.
func (s *Service) blogByID(ctx context.Context, id string) (*models.Blog, error) {
	const op = "service/blogs/blogByID"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	blog, err := s.storage.BlogByID(ctx, oid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}

		log.From(ctx).Error("failed to fetch blog", "blog_id", id, "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return blog, nil
}

// containsID сообщает членство id в списке идентификаторов.
func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}

	return false
}
