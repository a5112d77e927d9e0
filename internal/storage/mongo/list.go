package mongo

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MustSel/blog-api/internal/models"
	"github.com/MustSel/blog-api/internal/query"
)

// listPage — обобщённый list executor поверх одной коллекции:
// применяет базовый фильтр + дескриптор q и возвращает страницу
// документов вместе с метаданными о непагинированном количестве.
//
// Инварианты:
//   - base ANDится с constraint'ами из q и не может быть перекрыт ими;
//   - skip = (page-1)*limit; skip за пределами totalCount даёт пустую
//     страницу, а не ошибку;
//   - details.TotalCount считается по непагинированному фильтру,
//     PageCount = ceil(TotalCount/Limit).
func listPage[T any](ctx context.Context, coll *mongodriver.Collection, base bson.D, q query.Params) ([]T, *models.ListDetails, error) {
	const op = "storage/mongo/listPage"

	filter := buildListFilter(base, q)

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: count: %w", op, err)
	}

	findOpts := options.Find().
		SetSkip((q.Page - 1) * q.Limit).
		SetLimit(q.Limit)

	if len(q.Sort) > 0 {
		sort := bson.D{}
		for _, s := range q.Sort {
			sort = append(sort, bson.E{Key: s.Field, Value: int(s.Direction)})
		}
		findOpts.SetSort(sort)
	}

	cur, err := coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items := []T{}
	for cur.Next(ctx) {
		var item T
		if err := cur.Decode(&item); err != nil {
			return nil, nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		items = append(items, item)
	}

	if err := cur.Err(); err != nil {
		return nil, nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	details := &models.ListDetails{
		TotalCount:  total,
		PageCount:   pageCount(total, q.Limit),
		CurrentPage: q.Page,
		Limit:       q.Limit,
	}

	return items, details, nil
}

// buildListFilter собирает итоговый фильтр: сначала base, затем
// точные совпадения q.Filter и regex-поиск q.Search. Ключи, уже
// занятые base, пропускаются — базовый фильтр видимости не должен
// перекрываться пользовательской query string.
func buildListFilter(base bson.D, q query.Params) bson.D {
	filter := bson.D{}
	taken := make(map[string]struct{}, len(base))

	for _, e := range base {
		filter = append(filter, e)
		taken[e.Key] = struct{}{}
	}

	for field, val := range q.Filter {
		if _, ok := taken[field]; ok {
			continue
		}
		filter = append(filter, bson.E{Key: field, Value: scalarValue(val)})
		taken[field] = struct{}{}
	}

	for field, val := range q.Search {
		if _, ok := taken[field]; ok {
			continue
		}
		filter = append(filter, bson.E{Key: field, Value: primitive.Regex{
			Pattern: regexp.QuoteMeta(val),
			Options: "i",
		}})
		taken[field] = struct{}{}
	}

	return filter
}

// scalarValue приводит строковое значение фильтра к типу поля документа:
// bool, число, ObjectID или строка. Mongo сравнивает значения строго по
// типу, поэтому без приведения filter[isPublish]=true не нашёл бы ничего.
func scalarValue(val string) any {
	switch val {
	case "true":
		return true
	case "false":
		return false
	}

	if n, err := strconv.ParseInt(val, 10, 64); err == nil {
		return n
	}

	if oid, err := primitive.ObjectIDFromHex(val); err == nil {
		return oid
	}

	return val
}

// pageCount = ceil(total/limit); при total==0 страниц нет.
func pageCount(total, limit int64) int64 {
	if limit <= 0 || total <= 0 {
		return 0
	}

	return (total + limit - 1) / limit
}

// baseFilter переводит серверный map-фильтр в bson.D.
func baseFilter(base map[string]any) bson.D {
	d := bson.D{}
	for k, v := range base {
		d = append(d, bson.E{Key: k, Value: v})
	}

	return d
}

// setFields собирает $set-документ из allow-list полей, добавляя updatedAt.
func setFields(fields map[string]any) bson.D {
	set := bson.D{}
	for k, v := range fields {
		set = append(set, bson.E{Key: k, Value: v})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: time.Now().UTC()})

	return bson.D{{Key: "$set", Value: set}}
}
