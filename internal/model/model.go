// Package model defines the data structures shared across the pipeline: feed sources, fetched items,
// classifier output, stored articles and ingestion cycle summaries.
package model

import (
	"time"

	"github.com/0x0BSoD/cryptoSentiment/internal/sentiment"
)

type Source struct {
	Name    string
	FeedURL string
}

// Item is a fetched, not yet deduplicated feed entry.
type Item struct {
	Title       string
	Content     string
	Source      string
	URL         string
	PublishedAt time.Time
}

// Analysis is the classifier output for one item. Score is nil when the model produced only a label.
type Analysis struct {
	Label    sentiment.Label
	Score    *int
	Asset    *string
	Category *string
	Chain    *string
	Keywords []string
}

type Article struct {
	ID             int64           `db:"id" json:"id"`
	Title          string          `db:"title" json:"title"`
	Content        string          `db:"content" json:"content"`
	Source         string          `db:"source" json:"source"`
	URL            *string         `db:"url" json:"url"`
	PublishedAt    time.Time       `db:"published_at" json:"publishedAt"`
	AnalyzedAt     time.Time       `db:"analyzed_at" json:"analyzedAt"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	Sentiment      sentiment.Label `db:"sentiment" json:"sentiment"`
	SentimentScore *int            `db:"sentiment_score" json:"sentimentScore"`
	Asset          *string         `db:"asset" json:"asset"`
	Category       *string         `db:"category" json:"category"`
	Chain          *string         `db:"chain" json:"chain"`
	Keywords       *string         `db:"keywords" json:"keywords"`
}

// Score returns the stored sentiment score, or the neutral default for rows without one.
func (a Article) Score() int {
	if a.SentimentScore == nil {
		return sentiment.DefaultScore
	}
	return *a.SentimentScore
}

// Bucket returns the sentiment bucket of the article's score.
func (a Article) Bucket() sentiment.Label {
	return sentiment.Bucket(a.Score())
}

// CycleSummary reports the outcome counts of one ingestion cycle.
type CycleSummary struct {
	Fetched  int
	New      int
	Skipped  int
	Errored  int
	Degraded int
	Duration time.Duration
}
