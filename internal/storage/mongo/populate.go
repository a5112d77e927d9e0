package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MustSel/blog-api/internal/models"
)

// Population-хелперы: батчевое разрешение ссылок по $in с узкой проекцией.
// Каждая коллекция объявляет, что ей нужно (см. вызовы в blogs.go/comments.go),
// по умолчанию ссылки не разворачиваются.

// userSummaries возвращает проекции {username, image} по набору id.
func (m *Mongo) userSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	const op = "storage/mongo/userSummaries"

	out := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := m.users.Find(ctx,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: dedup(ids)}}}},
		options.Find().SetProjection(bson.D{{Key: "username", Value: 1}, {Key: "image", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var s models.UserSummary
		if err := cur.Decode(&s); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		out[s.ID] = s
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return out, nil
}

// categorySummaries возвращает проекции {name} по набору id.
func (m *Mongo) categorySummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.CategorySummary, error) {
	const op = "storage/mongo/categorySummaries"

	out := make(map[primitive.ObjectID]models.CategorySummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := m.categories.Find(ctx,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: dedup(ids)}}}},
		options.Find().SetProjection(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var s models.CategorySummary
		if err := cur.Decode(&s); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		out[s.ID] = s
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return out, nil
}

// blogSummaries возвращает проекции {title} по набору id.
func (m *Mongo) blogSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.BlogSummary, error) {
	const op = "storage/mongo/blogSummaries"

	out := make(map[primitive.ObjectID]models.BlogSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := m.blogs.Find(ctx,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: dedup(ids)}}}},
		options.Find().SetProjection(bson.D{{Key: "title", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var s models.BlogSummary
		if err := cur.Decode(&s); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		out[s.ID] = s
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return out, nil
}

func dedup(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
