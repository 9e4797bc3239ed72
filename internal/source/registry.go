package source

import (
	"fmt"
	"strings"

	"github.com/0x0BSoD/cryptoSentiment/internal/model"
)

var defaultFeeds = []model.Source{
	{Name: "CoinDesk", FeedURL: "https://www.coindesk.com/arc/outboundfeeds/rss/"},
	{Name: "Cointelegraph", FeedURL: "https://cointelegraph.com/rss"},
	{Name: "Decrypt", FeedURL: "https://decrypt.co/feed"},
	{Name: "Bitcoin Magazine", FeedURL: "https://bitcoinmagazine.com/.rss/full/"},
	{Name: "CryptoSlate", FeedURL: "https://cryptoslate.com/feed/"},
}

// Registry returns the named feeds to poll, in polling order. Overrides use the "name|url" form
// and replace the built-in list entirely.
func Registry(overrides []string) ([]model.Source, error) {
	if len(overrides) == 0 {
		out := make([]model.Source, len(defaultFeeds))
		copy(out, defaultFeeds)
		return out, nil
	}

	sources := make([]model.Source, 0, len(overrides))
	for _, entry := range overrides {
		name, url, ok := strings.Cut(entry, "|")
		name, url = strings.TrimSpace(name), strings.TrimSpace(url)
		if !ok || name == "" || url == "" {
			return nil, fmt.Errorf("invalid feed entry %q, want \"name|url\"", entry)
		}
		sources = append(sources, model.Source{Name: name, FeedURL: url})
	}

	return sources, nil
}
