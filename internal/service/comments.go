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

// CreateCommentInput — создание комментария от имени identity.
type CreateCommentInput struct {
	BlogID  string
	Comment string
}

// UpdateCommentInput — обновление: мутируем только текст,
// userId/blogId через обновление недостижимы.
type UpdateCommentInput struct {
	Comment string
}

// ListComments возвращает страницу комментариев, опционально суженную
// по blogID. Кривой blogID даёт пустую выдачу, а не ошибку.
func (s *Service) ListComments(ctx context.Context, blogID, rawQuery string) ([]models.Comment, *models.ListDetails, error) {
	const op = "service/comments/ListComments"

	q := query.Parse(rawQuery, commentsSchema, s.limits())

	base := map[string]any{}
	if blogID != "" {
		oid, err := primitive.ObjectIDFromHex(blogID)
		if err != nil {
			oid = primitive.NilObjectID
		}

		base["blogId"] = oid
	}

	comments, details, err := s.storage.ListComments(ctx, base, q)
	if err != nil {
		log.From(ctx).Error("failed to list comments", "err", err)
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return comments, details, nil
}

// CreateComment создаёт комментарий и добавляет его id в список comments
// родительского блога. Две операции не транзакционны: краткое окно, в
// котором комментарий существует, а блог о нём не знает, допустимо.
func (s *Service) CreateComment(ctx context.Context, ident *models.Identity, in CreateCommentInput) (*models.Comment, error) {
	const op = "service/comments/CreateComment"

	lg := log.From(ctx)

	if ident == nil {
		return nil, ErrUnauthenticated
	}

	text := strings.TrimSpace(in.Comment)
	if text == "" {
		return nil, ErrInvalidArgument
	}

	blogID, err := primitive.ObjectIDFromHex(in.BlogID)
	if err != nil {
		return nil, ErrInvalidArgument
	}

	if _, err := s.storage.BlogByID(ctx, blogID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}

		lg.Error("failed to fetch blog", "blog_id", in.BlogID, "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	comment, err := s.storage.SaveComment(ctx, &models.Comment{
		UserID:  ident.ID,
		BlogID:  blogID,
		Comment: text,
	})
	if err != nil {
		lg.Error("failed to save comment", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if err := s.storage.PushBlogComment(ctx, blogID, comment.ID); err != nil {
		// Блог мог быть удалён между проверкой и push — комментарий
		// заберёт следующий каскад, ответ клиенту не ломаем.
		lg.Warn("failed to push comment to blog", "blog_id", in.BlogID, "comment_id", comment.ID.Hex(), "err", err)
	}

	lg.Info("comment created", "comment_id", comment.ID.Hex(), "blog_id", in.BlogID)

	return comment, nil
}

// CommentByID возвращает комментарий с population автора и блога.
func (s *Service) CommentByID(ctx context.Context, id string) (*models.Comment, error) {
	const op = "service/comments/CommentByID"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	comment, err := s.storage.CommentByID(ctx, oid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}

		log.From(ctx).Error("failed to fetch comment", "comment_id", id, "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return comment, nil
}

// UpdateComment меняет текст комментария. Право мутации: автор или админ.
func (s *Service) UpdateComment(ctx context.Context, ident *models.Identity, id string, in UpdateCommentInput) (*models.Comment, error) {
	const op = "service/comments/UpdateComment"

	comment, err := s.CommentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ident, comment.UserID); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(in.Comment)
	if text == "" {
		return nil, ErrInvalidArgument
	}

	updated, err := s.storage.UpdateComment(ctx, comment.ID, map[string]any{"comment": text})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}

		log.From(ctx).Error("failed to update comment", "comment_id", id, "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return updated, nil
}

// DeleteComment удаляет комментарий и убирает его id из родительского
// блога. Право мутации: автор или админ.
func (s *Service) DeleteComment(ctx context.Context, ident *models.Identity, id string) error {
	const op = "service/comments/DeleteComment"

	lg := log.From(ctx)

	comment, err := s.CommentByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorize(ident, comment.UserID); err != nil {
		return err
	}

	if err := s.storage.DeleteComment(ctx, comment.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}

		lg.Error("failed to delete comment", "comment_id", id, "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if err := s.storage.PullBlogComment(ctx, comment.BlogID, comment.ID); err != nil {
		lg.Warn("failed to pull comment from blog", "blog_id", comment.BlogID.Hex(), "comment_id", id, "err", err)
	}

	lg.Info("comment deleted", "comment_id", id)

	return nil
}
