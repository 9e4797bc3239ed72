// Package source implements the feed registry and the RSSSource used to pull items from each feed.
package source

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/SlyMarbo/rss"
	"github.com/go-shiori/go-readability"
	"github.com/samber/lo"

	"github.com/0x0BSoD/cryptoSentiment/internal/model"
)

// contextTransport injects a context into every outgoing request so that
// context cancellation and deadlines propagate through the rss library.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

type RSSSource struct {
	URL        string
	SourceName string
	Timeout    time.Duration
	Transport  http.RoundTripper
}

func NewRSSSourceFromModel(m model.Source, timeout time.Duration) RSSSource {
	return RSSSource{
		URL:        m.FeedURL,
		SourceName: m.Name,
		Timeout:    timeout,
	}
}

func (s RSSSource) Name() string {
	return s.SourceName
}

func (s RSSSource) Fetch(ctx context.Context) ([]model.Item, error) {
	feed, err := s.loadFeed(ctx)
	if err != nil {
		return nil, err
	}

	items := lo.Map(feed.Items, func(item *rss.Item, _ int) model.Item {
		return model.Item{
			Title:       strings.TrimSpace(item.Title),
			Content:     itemText(item),
			Source:      s.SourceName,
			URL:         strings.TrimSpace(item.Link),
			PublishedAt: item.Date,
		}
	})

	return lo.Filter(items, func(item model.Item, _ int) bool {
		return item.Title != ""
	}), nil
}

// itemText returns the richest available text for an item as plain text.
// Content (full body) is preferred over Summary (short excerpt).
func itemText(item *rss.Item) string {
	raw := strings.TrimSpace(item.Content)
	if raw == "" {
		raw = strings.TrimSpace(item.Summary)
	}
	return plainText(raw)
}

var (
	tags       = regexp.MustCompile(`<[^>]*>`)
	whitespace = regexp.MustCompile(`\s+`)
)

func plainText(raw string) string {
	if !strings.Contains(raw, "<") {
		return raw
	}

	if doc, err := readability.FromReader(strings.NewReader(raw), nil); err == nil {
		if text := strings.TrimSpace(doc.TextContent); text != "" {
			return whitespace.ReplaceAllString(text, " ")
		}
	}

	return strings.TrimSpace(whitespace.ReplaceAllString(tags.ReplaceAllString(raw, " "), " "))
}

func (s RSSSource) loadFeed(ctx context.Context) (*rss.Feed, error) {
	base := s.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{
		Transport: contextTransport{ctx: ctx, base: base},
		Timeout:   timeout,
	}
	return rss.FetchByClient(s.URL, client)
}
