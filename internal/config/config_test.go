package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	t.Setenv("CSA_HTTP_ADDR", ":9090")
	t.Setenv("CSA_ITEMS_PER_FEED", "3")
	t.Setenv("CSA_AI_TYPE", "openai")

	cfg := Get()

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 3, cfg.ItemsPerFeed)
	assert.Equal(t, "openai", cfg.AIType)

	assert.Equal(t, time.Hour, cfg.FetchInterval)
	assert.Equal(t, 20*time.Second, cfg.FeedTimeout)
	assert.Equal(t, 30*time.Second, cfg.AITimeout)
	assert.Equal(t, "analysis", cfg.ClassifierMode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Feeds)

	assert.Equal(t, cfg, Get(), "config is loaded once")
}
