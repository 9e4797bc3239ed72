package fetcher

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/0x0BSoD/cryptoSentiment/internal/logger"
	"github.com/0x0BSoD/cryptoSentiment/internal/model"
)

var ErrAllFeedsFailed = errors.New("all feeds failed")

type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.Item, error)
}

type Fetcher struct {
	sources      []Source
	itemsPerFeed int
}

func New(sources []Source, itemsPerFeed int) *Fetcher {
	if itemsPerFeed <= 0 {
		itemsPerFeed = 5
	}
	return &Fetcher{
		sources:      sources,
		itemsPerFeed: itemsPerFeed,
	}
}

// Fetch pulls every source in order and concatenates their most recent items.
// A failing source contributes no items; only a failure of every source is an error.
func (f *Fetcher) Fetch(ctx context.Context) ([]model.Item, error) {
	var (
		all    []model.Item
		failed int
	)

	for _, src := range f.sources {
		if err := ctx.Err(); err != nil {
			return all, err
		}

		items, err := src.Fetch(ctx)
		if err != nil {
			failed++
			logger.Error("failed to fetch feed", zap.String("source", src.Name()), zap.Error(err))
			continue
		}

		items = mostRecent(items, f.itemsPerFeed)
		logger.Debug("feed fetched", zap.String("source", src.Name()), zap.Int("items", len(items)))
		all = append(all, items...)
	}

	if len(f.sources) > 0 && failed == len(f.sources) {
		return nil, ErrAllFeedsFailed
	}

	return all, nil
}

// mostRecent keeps the newest n items; items without a date sort last and ties keep feed order.
func mostRecent(items []model.Item, n int) []model.Item {
	sorted := make([]model.Item, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		return newer(sorted[i].PublishedAt, sorted[j].PublishedAt)
	})

	return sorted[:min(len(sorted), n)]
}

func newer(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return !a.IsZero() && b.IsZero()
	}
	return a.After(b)
}
