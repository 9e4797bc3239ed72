// Package analytics is the aggregation engine: windowed sentiment statistics, trends and rankings
// over the Article Store, plus the paginated article reads served by the API.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/0x0BSoD/cryptoSentiment/internal/model"
	"github.com/0x0BSoD/cryptoSentiment/internal/sentiment"
	"github.com/0x0BSoD/cryptoSentiment/internal/storage"
)

const (
	DefaultDays      = 7
	MaxDays          = 365
	MaxHours         = 720
	DefaultLimit     = 10
	DefaultPageLimit = 20
	MaxLimit         = 100

	DefaultKeywordLimit = 20
)

type ArticleReader interface {
	List(ctx context.Context, filter storage.ListFilter) ([]model.Article, int, error)
	Latest(ctx context.Context, limit int) ([]model.Article, error)
	ByID(ctx context.Context, id int64) (*model.Article, error)
	Window(ctx context.Context, from, to time.Time) ([]model.Article, error)
}

type Engine struct {
	articles ArticleReader
	now      func() time.Time
}

func New(articles ArticleReader) *Engine {
	return &Engine{
		articles: articles,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type ListQuery struct {
	Page      int
	Limit     int
	Sentiment sentiment.Label
	Source    string
	Asset     string
	Category  string
	Chain     string
	Search    string
	Days      int
	OrderBy   string
	Asc       bool
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type ArticlePage struct {
	Articles   []model.Article `json:"articles"`
	Pagination Pagination      `json:"pagination"`
}

func (e *Engine) Articles(ctx context.Context, q ListQuery) (ArticlePage, error) {
	page := max(q.Page, 1)
	limit := clampLimit(q.Limit, DefaultPageLimit)

	filter := storage.ListFilter{
		Sentiment: q.Sentiment,
		Source:    q.Source,
		Asset:     q.Asset,
		Category:  q.Category,
		Chain:     q.Chain,
		Search:    q.Search,
		OrderBy:   q.OrderBy,
		Asc:       q.Asc,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}
	if q.Days > 0 {
		filter.Since = e.daysAgo(min(q.Days, MaxDays))
	}

	articles, total, err := e.articles.List(ctx, filter)
	if err != nil {
		return ArticlePage{}, fmt.Errorf("list articles: %w", err)
	}
	if articles == nil {
		articles = []model.Article{}
	}

	return ArticlePage{
		Articles: articles,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: TotalPages(total, limit),
		},
	}, nil
}

// TotalPages is ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func (e *Engine) Latest(ctx context.Context, limit int) ([]model.Article, error) {
	articles, err := e.articles.Latest(ctx, clampLimit(limit, DefaultLimit))
	if err != nil {
		return nil, fmt.Errorf("latest articles: %w", err)
	}
	if articles == nil {
		articles = []model.Article{}
	}
	return articles, nil
}

// Article returns storage.ErrNotFound for an unknown id.
func (e *Engine) Article(ctx context.Context, id int64) (*model.Article, error) {
	return e.articles.ByID(ctx, id)
}

// SentimentStats counts buckets for articles published in [from, to]. A zero from means the default
// lookback ending at to (or now when to is zero); a zero to leaves the window open.
func (e *Engine) SentimentStats(ctx context.Context, from, to time.Time) (SentimentCounts, error) {
	if from.IsZero() {
		end := e.now()
		if !to.IsZero() {
			end = to
		}
		from = end.AddDate(0, 0, -DefaultDays)
	}

	articles, err := e.articles.Window(ctx, from, to)
	if err != nil {
		return SentimentCounts{}, fmt.Errorf("sentiment stats: %w", err)
	}

	return CountBuckets(articles), nil
}

type TrendQuery struct {
	Hours       int
	Days        int
	Granularity Granularity
}

// SentimentTrend buckets the lookback window into daily or hourly sub-intervals.
// Hours take precedence over days when both are set.
func (e *Engine) SentimentTrend(ctx context.Context, q TrendQuery) ([]TrendPoint, error) {
	var from time.Time
	switch {
	case q.Hours > 0:
		from = e.now().Add(-time.Duration(min(q.Hours, MaxHours)) * time.Hour)
	default:
		from = e.daysAgo(clampDays(q.Days))
	}

	granularity := q.Granularity
	if granularity != Hourly {
		granularity = Daily
	}

	articles, err := e.articles.Window(ctx, from, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("sentiment trend: %w", err)
	}

	return Trend(articles, granularity), nil
}

func (e *Engine) TopSources(ctx context.Context, days, limit int) ([]GroupStat, error) {
	return e.grouped(ctx, "top sources", sourceKey, days, limit)
}

func (e *Engine) AssetStats(ctx context.Context, days, limit int) ([]GroupStat, error) {
	return e.grouped(ctx, "asset stats", assetKey, days, limit)
}

func (e *Engine) CategoryStats(ctx context.Context, days, limit int) ([]GroupStat, error) {
	return e.grouped(ctx, "category stats", categoryKey, days, limit)
}

func (e *Engine) ChainStats(ctx context.Context, days, limit int) ([]GroupStat, error) {
	return e.grouped(ctx, "chain stats", chainKey, days, limit)
}

func (e *Engine) TrendingKeywords(ctx context.Context, days, limit int) ([]KeywordCount, error) {
	articles, err := e.articles.Window(ctx, e.daysAgo(clampDays(days)), time.Time{})
	if err != nil {
		return nil, fmt.Errorf("trending keywords: %w", err)
	}
	return Keywords(articles, clampLimit(limit, DefaultKeywordLimit)), nil
}

func (e *Engine) grouped(ctx context.Context, op string, key func(model.Article) *string, days, limit int) ([]GroupStat, error) {
	articles, err := e.articles.Window(ctx, e.daysAgo(clampDays(days)), time.Time{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return GroupBy(articles, key, clampLimit(limit, DefaultLimit)), nil
}

func (e *Engine) daysAgo(days int) time.Time {
	return e.now().AddDate(0, 0, -days)
}

func clampDays(days int) int {
	if days <= 0 {
		return DefaultDays
	}
	return min(days, MaxDays)
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, MaxLimit)
}
