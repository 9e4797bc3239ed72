// Package dedup decides whether a fetched item is already stored, using the Article Store's
// title index as the single source of truth.
package dedup

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/0x0BSoD/cryptoSentiment/internal/logger"
)

type TitleIndex interface {
	ExistsTitle(ctx context.Context, title string) (bool, error)
	Titles(ctx context.Context) ([]string, error)
}

// Gate answers title lookups from an in-memory set of titles known to be stored and falls back
// to the store on a miss. The set only ever holds titles the store has confirmed.
type Gate struct {
	index TitleIndex

	mu    sync.RWMutex
	known map[string]struct{}
}

func New(index TitleIndex) *Gate {
	return &Gate{
		index: index,
		known: make(map[string]struct{}),
	}
}

// Warm rebuilds the in-memory set from the store.
func (g *Gate) Warm(ctx context.Context) error {
	titles, err := g.index.Titles(ctx)
	if err != nil {
		return err
	}

	known := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		known[t] = struct{}{}
	}

	g.mu.Lock()
	g.known = known
	g.mu.Unlock()

	logger.Info("dedup cache warmed", zap.Int("titles", len(known)))
	return nil
}

func (g *Gate) Exists(ctx context.Context, title string) (bool, error) {
	g.mu.RLock()
	_, hit := g.known[title]
	g.mu.RUnlock()
	if hit {
		return true, nil
	}

	exists, err := g.index.ExistsTitle(ctx, title)
	if err != nil {
		return false, err
	}
	if exists {
		g.Remember(title)
	}
	return exists, nil
}

// Remember records a title the store has accepted or reported as present.
func (g *Gate) Remember(title string) {
	g.mu.Lock()
	g.known[title] = struct{}{}
	g.mu.Unlock()
}
