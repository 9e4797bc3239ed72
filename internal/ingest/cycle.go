// Package ingest runs the fetch, dedup, classify and persist cycle.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/0x0BSoD/cryptoSentiment/internal/classifier"
	"github.com/0x0BSoD/cryptoSentiment/internal/logger"
	"github.com/0x0BSoD/cryptoSentiment/internal/model"
	"github.com/0x0BSoD/cryptoSentiment/internal/sentiment"
	"github.com/0x0BSoD/cryptoSentiment/internal/storage"
)

type Fetcher interface {
	Fetch(ctx context.Context) ([]model.Item, error)
}

type Gate interface {
	Exists(ctx context.Context, title string) (bool, error)
	Remember(title string)
}

type Classifier interface {
	Classify(ctx context.Context, text string) (model.Analysis, error)
}

type ArticleStorage interface {
	Insert(ctx context.Context, article model.Article) (int64, error)
}

type Reporter interface {
	Notify(msg string)
}

type Cycle struct {
	fetcher    Fetcher
	gate       Gate
	classifier Classifier
	articles   ArticleStorage
	reporter   Reporter

	now func() time.Time
}

// New builds a cycle. reporter may be nil.
func New(fetcher Fetcher, gate Gate, classifier Classifier, articles ArticleStorage, reporter Reporter) *Cycle {
	return &Cycle{
		fetcher:    fetcher,
		gate:       gate,
		classifier: classifier,
		articles:   articles,
		reporter:   reporter,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (c *Cycle) Name() string {
	return "ingest"
}

func (c *Cycle) Run(ctx context.Context) error {
	_, _, err := c.RunCycle(ctx)
	return err
}

// RunCycle processes every fetched candidate sequentially and returns the per-candidate results.
// Only a failed fetch is returned as an error; per-candidate failures are reported in the results.
func (c *Cycle) RunCycle(ctx context.Context) (model.CycleSummary, []Result, error) {
	started := time.Now()

	items, err := c.fetcher.Fetch(ctx)
	if err != nil {
		c.report(fmt.Sprintf("ingestion cycle skipped: fetch failed: %v", err))
		return model.CycleSummary{Duration: time.Since(started)}, nil, fmt.Errorf("fetch feeds: %w", err)
	}

	results := make([]Result, 0, len(items))
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		results = append(results, c.process(ctx, item))
	}

	summary := summarize(len(items), results, time.Since(started))
	logger.Info("ingestion cycle finished",
		zap.Int("fetched", summary.Fetched),
		zap.Int("new", summary.New),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errored", summary.Errored),
		zap.Int("degraded", summary.Degraded),
		zap.Duration("duration", summary.Duration),
	)

	if summary.Errored > 0 || summary.Degraded > 0 {
		c.report(fmt.Sprintf(
			"ingestion cycle: %d new, %d skipped, %d errored, %d classified with fallback",
			summary.New, summary.Skipped, summary.Errored, summary.Degraded,
		))
	}

	return summary, results, ctx.Err()
}

func (c *Cycle) process(ctx context.Context, item model.Item) Result {
	res := Result{Title: item.Title}

	exists, err := c.gate.Exists(ctx, item.Title)
	if err != nil {
		logger.Error("dedup lookup failed", zap.String("title", item.Title), zap.Error(err))
		res.Outcome, res.Err = OutcomeFailed, fmt.Errorf("dedup lookup: %w", err)
		return res
	}
	if exists {
		logger.Debug("duplicate skipped", zap.String("title", item.Title))
		res.Outcome = OutcomeSkipped
		return res
	}

	analysis, err := c.classifier.Classify(ctx, classifier.Input(item.Title, item.Content))
	if err != nil {
		logger.Warn("classification failed, using neutral fallback", zap.String("title", item.Title), zap.Error(err))
		analysis = model.Analysis{Label: sentiment.Error}
		res.Degraded = true
	}

	article := c.buildArticle(item, analysis)

	id, err := c.articles.Insert(ctx, article)
	switch {
	case errors.Is(err, storage.ErrDuplicate):
		c.gate.Remember(item.Title)
		res.Outcome, res.Degraded = OutcomeSkipped, false
		return res
	case err != nil:
		logger.Error("failed to store article", zap.String("title", item.Title), zap.Error(err))
		res.Outcome, res.Degraded, res.Err = OutcomeFailed, false, fmt.Errorf("store article: %w", err)
		return res
	}

	c.gate.Remember(item.Title)
	article.ID = id
	res.Outcome, res.Article = OutcomeStored, article
	return res
}

func (c *Cycle) buildArticle(item model.Item, analysis model.Analysis) model.Article {
	now := c.now()

	publishedAt := item.PublishedAt.UTC()
	if item.PublishedAt.IsZero() {
		publishedAt = now
	}

	score := sentiment.DefaultScore
	if analysis.Score != nil {
		score = sentiment.ClampScore(*analysis.Score)
	}

	label := analysis.Label
	if label == "" {
		label = sentiment.Bucket(score)
	}

	article := model.Article{
		Title:          item.Title,
		Content:        item.Content,
		Source:         item.Source,
		PublishedAt:    publishedAt,
		AnalyzedAt:     now,
		Sentiment:      label,
		SentimentScore: &score,
		Asset:          analysis.Asset,
		Category:       analysis.Category,
		Chain:          analysis.Chain,
	}

	if item.URL != "" {
		url := item.URL
		article.URL = &url
	}
	if len(analysis.Keywords) > 0 {
		keywords := strings.Join(analysis.Keywords, ", ")
		article.Keywords = &keywords
	}

	return article
}

func (c *Cycle) report(msg string) {
	logger.Warn(msg)
	if c.reporter != nil {
		c.reporter.Notify(msg)
	}
}
