package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/cryptoSentiment/internal/sentiment"
)

func TestListFilter_EmptyFilter(t *testing.T) {
	query, args, err := ListFilter{Limit: 20}.pageQuery().ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM articles")
	assert.Contains(t, query, "ORDER BY published_at DESC, id DESC")
	assert.Contains(t, query, "LIMIT 20")
	assert.NotContains(t, query, "OFFSET")
	assert.Empty(t, args)
}

func TestListFilter_SentimentBucketUsesScoreRange(t *testing.T) {
	query, args, err := ListFilter{Sentiment: sentiment.Bullish}.countQuery().ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT COUNT(*) FROM articles WHERE (COALESCE(sentiment_score, $1) BETWEEN $2 AND $3)", query)
	assert.Equal(t, []any{sentiment.DefaultScore, sentiment.BullishMin, sentiment.MaxScore}, args)
}

func TestListFilter_ErrorSentimentUsesLabel(t *testing.T) {
	query, args, err := ListFilter{Sentiment: sentiment.Error}.countQuery().ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT COUNT(*) FROM articles WHERE (sentiment = $1)", query)
	assert.Equal(t, []any{"ERROR"}, args)
}

func TestListFilter_AllConditions(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := ListFilter{
		Sentiment: sentiment.Neutral,
		Source:    "CoinDesk",
		Asset:     "BTC",
		Category:  "markets",
		Chain:     "Bitcoin",
		Search:    "50%_off",
		Since:     since,
		OrderBy:   "analyzedAt",
		Asc:       true,
		Limit:     10,
		Offset:    30,
	}

	query, args, err := f.pageQuery().ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "COALESCE(sentiment_score, $1) BETWEEN $2 AND $3")
	assert.Contains(t, query, "source = $4")
	assert.Contains(t, query, "asset = $5")
	assert.Contains(t, query, "category = $6")
	assert.Contains(t, query, "chain = $7")
	assert.Contains(t, query, "(title ILIKE $8 OR content ILIKE $9)")
	assert.Contains(t, query, "published_at >= $10")
	assert.Contains(t, query, "ORDER BY analyzed_at ASC, id ASC LIMIT 10 OFFSET 30")

	assert.Equal(t, []any{
		sentiment.DefaultScore, sentiment.BearishMax + 1, sentiment.BullishMin - 1,
		"CoinDesk", "BTC", "markets", "Bitcoin",
		`%50\%\_off%`, `%50\%\_off%`,
		since,
	}, args)
}

func TestListFilter_UnknownOrderFallsBackToPublishedAt(t *testing.T) {
	query, _, err := ListFilter{OrderBy: "title; DROP TABLE articles"}.pageQuery().ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "ORDER BY published_at DESC")
	assert.NotContains(t, query, "DROP")
}

func TestWindowQuery(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(48 * time.Hour)

	query, args, err := windowQuery(from, time.Time{}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT published_at, sentiment_score, source, asset, category, chain, keywords FROM articles WHERE published_at >= $1 ORDER BY published_at ASC", query)
	assert.Equal(t, []any{from}, args)

	query, args, err = windowQuery(from, to).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "WHERE published_at >= $1 AND published_at <= $2")
	assert.Equal(t, []any{from, to}, args)
}
