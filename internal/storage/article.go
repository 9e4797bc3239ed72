// Package storage is the Postgres-backed Article Store. The ingestion cycle is its only writer;
// rows are never updated after insert.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/0x0BSoD/cryptoSentiment/internal/model"
)

var (
	ErrNotFound  = errors.New("article not found")
	ErrDuplicate = errors.New("article with this title already exists")
)

const uniqueViolation = "23505"

type ArticleStorage struct {
	db *sqlx.DB
}

func NewArticleStorage(db *sqlx.DB) *ArticleStorage {
	return &ArticleStorage{db: db}
}

// Insert stores a new article and returns its id. A title that is already stored yields ErrDuplicate.
func (s *ArticleStorage) Insert(ctx context.Context, article model.Article) (int64, error) {
	query, args, err := psql.Insert("articles").
		Columns(
			"title", "content", "source", "url", "published_at", "analyzed_at",
			"sentiment", "sentiment_score", "asset", "category", "chain", "keywords",
		).
		Values(
			article.Title, article.Content, article.Source, article.URL, article.PublishedAt.UTC(), article.AnalyzedAt.UTC(),
			string(article.Sentiment), article.SentimentScore, article.Asset, article.Category, article.Chain, article.Keywords,
		).
		Suffix("ON CONFLICT (title) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		var pqErr *pq.Error
		if errors.Is(err, sql.ErrNoRows) || (errors.As(err, &pqErr) && pqErr.Code == uniqueViolation) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("insert article: %w", err)
	}

	return id, nil
}

func (s *ArticleStorage) ExistsTitle(ctx context.Context, title string) (bool, error) {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM articles WHERE title = $1)`, title); err != nil {
		return false, fmt.Errorf("check title: %w", err)
	}
	return exists, nil
}

func (s *ArticleStorage) Titles(ctx context.Context) ([]string, error) {
	var titles []string
	if err := s.db.SelectContext(ctx, &titles, `SELECT title FROM articles`); err != nil {
		return nil, fmt.Errorf("select titles: %w", err)
	}
	return titles, nil
}

func (s *ArticleStorage) ByID(ctx context.Context, id int64) (*model.Article, error) {
	query, args, err := psql.Select(articleColumns...).From("articles").Where("id = ?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var article model.Article
	if err := s.db.GetContext(ctx, &article, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select article %d: %w", id, err)
	}

	return &article, nil
}

// List returns one page of articles matching the filter and the total number of matches.
func (s *ArticleStorage) List(ctx context.Context, filter ListFilter) ([]model.Article, int, error) {
	countSQL, countArgs, err := filter.countQuery().ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	articles := []model.Article{}
	if total == 0 || filter.Offset >= total {
		return articles, total, nil
	}

	pageSQL, pageArgs, err := filter.pageQuery().ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build page: %w", err)
	}

	if err := s.db.SelectContext(ctx, &articles, pageSQL, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("select articles: %w", err)
	}

	return articles, total, nil
}

func (s *ArticleStorage) Latest(ctx context.Context, limit int) ([]model.Article, error) {
	query, args, err := ListFilter{OrderBy: "publishedAt", Limit: limit}.pageQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build latest: %w", err)
	}

	articles := []model.Article{}
	if err := s.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, fmt.Errorf("select latest: %w", err)
	}

	return articles, nil
}

// Window returns the aggregation projection of articles published in [from, to]; a zero to leaves the window open.
func (s *ArticleStorage) Window(ctx context.Context, from, to time.Time) ([]model.Article, error) {
	query, args, err := windowQuery(from, to).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build window: %w", err)
	}

	articles := []model.Article{}
	if err := s.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, fmt.Errorf("select window: %w", err)
	}

	return articles, nil
}

func (s *ArticleStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
