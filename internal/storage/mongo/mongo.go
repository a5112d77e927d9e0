// mongo — адаптер документного хранилища blog-api поверх MongoDB.
//
// mongo.go — подключение, коллекции и индексы.
// list.go — обобщённый list executor (filter/search/sort/skip/limit + счётчики).
// populate.go — батчевое разрешение ссылок в встраиваемые проекции.
// Остальные файлы — операции по коллекциям.
package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/MustSel/blog-api/internal/config"
	"github.com/MustSel/blog-api/internal/storage"
)

const (
	usersCollection      = "users"
	blogsCollection      = "blogs"
	categoriesCollection = "categories"
	commentsCollection   = "comments"
	tokensCollection     = "tokens"

	defaultDBName = "blog"
)

// Mongo — тонкий адаптер для подключения и коллекций MongoDB.
type Mongo struct {
	cfg        *config.Config
	client     *mongodriver.Client
	db         *mongodriver.Database
	users      *mongodriver.Collection
	blogs      *mongodriver.Collection
	categories *mongodriver.Collection
	comments   *mongodriver.Collection
	tokens     *mongodriver.Collection
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.Storage = (*Mongo)(nil)

// New подключается к MongoDB, проверяет соединение, подготавливает
// коллекции и обеспечивает индексацию.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongo: nil config")
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.DB.URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.DB.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	dbName := databaseFromURI(cfg.DB.URL)
	db := cli.Database(dbName)

	m := &Mongo{
		cfg:        cfg,
		client:     cli,
		db:         db,
		users:      db.Collection(usersCollection),
		blogs:      db.Collection(blogsCollection),
		categories: db.Collection(categoriesCollection),
		comments:   db.Collection(commentsCollection),
		tokens:     db.Collection(tokensCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

// Close закрывает клиент MongoDB.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes создаёт индексы:
//   - users: уникальные username и email;
//   - categories: уникальное name;
//   - tokens: уникальный token + поиск по userId;
//   - blogs: выборка ленты isPublish+createdAt и блоги автора;
//   - comments: каскад и фильтр по blogId.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	create := func(coll *mongodriver.Collection, models []mongodriver.IndexModel) error {
		_, err := coll.Indexes().CreateMany(ctx, models)
		return err
	}

	specs := []struct {
		coll   *mongodriver.Collection
		models []mongodriver.IndexModel
	}{
		{m.users, []mongodriver.IndexModel{
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetName("uniq_username").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("uniq_email").SetUnique(true),
			},
		}},
		{m.categories, []mongodriver.IndexModel{
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetName("uniq_name").SetUnique(true),
			},
		}},
		{m.tokens, []mongodriver.IndexModel{
			{
				Keys:    bson.D{{Key: "token", Value: 1}},
				Options: options.Index().SetName("uniq_token").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "userId", Value: 1}},
				Options: options.Index().SetName("token_user"),
			},
		}},
		{m.blogs, []mongodriver.IndexModel{
			{
				Keys:    bson.D{{Key: "isPublish", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("publish_created_desc"),
			},
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("author_created_desc"),
			},
		}},
		{m.comments, []mongodriver.IndexModel{
			{
				Keys:    bson.D{{Key: "blogId", Value: 1}, {Key: "createdAt", Value: 1}},
				Options: options.Index().SetName("blog_created_asc"),
			},
		}},
	}

	for _, s := range specs {
		if err := create(s.coll, s.models); err != nil {
			return fmt.Errorf("mongo ensure indexes: %w", err)
		}
	}

	return nil
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если оно отсутствует или не поддаётся расшифровке, возвращает значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}

	return defaultDBName
}
