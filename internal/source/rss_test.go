package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/cryptoSentiment/internal/model"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>test</description>
    <item>
      <title>Bitcoin breaks resistance</title>
      <link>https://example.com/btc</link>
      <description>Plain summary text</description>
      <pubDate>Mon, 01 Jan 2024 10:00:00 +0000</pubDate>
    </item>
    <item>
      <title></title>
      <link>https://example.com/untitled</link>
      <description>no title</description>
    </item>
  </channel>
</rss>`

func TestRSSSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	src := NewRSSSourceFromModel(model.Source{Name: "Test", FeedURL: srv.URL}, 5*time.Second)

	items, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "Bitcoin breaks resistance", items[0].Title)
	assert.Equal(t, "Plain summary text", items[0].Content)
	assert.Equal(t, "Test", items[0].Source)
	assert.Equal(t, "https://example.com/btc", items[0].URL)
	assert.True(t, items[0].PublishedAt.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)))
}

func TestRSSSource_FetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not a feed"))
	}))
	defer srv.Close()

	src := NewRSSSourceFromModel(model.Source{Name: "Broken", FeedURL: srv.URL}, time.Second)

	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "already plain", plainText("already plain"))

	out := plainText("<p>Hello <b>world</b></p>")
	assert.NotContains(t, out, "<")
	assert.Contains(t, out, "world")
}

func TestRegistry(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		sources, err := Registry(nil)
		require.NoError(t, err)
		assert.Equal(t, defaultFeeds, sources)
	})

	t.Run("overrides keep order", func(t *testing.T) {
		sources, err := Registry([]string{"B|https://b.example/rss", " A | https://a.example/rss "})
		require.NoError(t, err)
		assert.Equal(t, []model.Source{
			{Name: "B", FeedURL: "https://b.example/rss"},
			{Name: "A", FeedURL: "https://a.example/rss"},
		}, sources)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := Registry([]string{"no-separator"})
		assert.Error(t, err)
	})
}
