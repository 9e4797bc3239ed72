package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/0x0BSoD/cryptoSentiment/internal/analytics"
)

func (h *Handler) sentimentStats(c *gin.Context) {
	var p rangeParams
	if err := bindQuery(c, &p); err != nil {
		badRequest(c, err)
		return
	}

	from, to, err := p.window()
	if err != nil {
		badRequest(c, err)
		return
	}

	counts, err := h.analytics.SentimentStats(c.Request.Context(), from, to)
	if err != nil {
		internalError(c, "sentiment stats", err)
		return
	}

	c.JSON(http.StatusOK, counts)
}

func (h *Handler) sentimentTrend(c *gin.Context) {
	var p trendParams
	if err := bindQuery(c, &p); err != nil {
		badRequest(c, err)
		return
	}

	trend, err := h.analytics.SentimentTrend(c.Request.Context(), analytics.TrendQuery{
		Hours:       value(p.Hours),
		Days:        value(p.Days),
		Granularity: analytics.Granularity(p.Granularity),
	})
	if err != nil {
		internalError(c, "sentiment trend", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": trend})
}

// ranked serves a {days, limit} ranking under the given response key.
func ranked[T any](key string, fn func(ctx context.Context, days, limit int) ([]T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p rankParams
		if err := bindQuery(c, &p); err != nil {
			badRequest(c, err)
			return
		}

		rows, err := fn(c.Request.Context(), value(p.Days), value(p.Limit))
		if err != nil {
			internalError(c, key, err)
			return
		}
		if rows == nil {
			rows = []T{}
		}

		c.JSON(http.StatusOK, gin.H{key: rows})
	}
}

func (h *Handler) topSources(c *gin.Context) {
	ranked("sources", h.analytics.TopSources)(c)
}

func (h *Handler) assetStats(c *gin.Context) {
	ranked("assets", h.analytics.AssetStats)(c)
}

func (h *Handler) categoryStats(c *gin.Context) {
	ranked("categories", h.analytics.CategoryStats)(c)
}

func (h *Handler) chainStats(c *gin.Context) {
	ranked("chains", h.analytics.ChainStats)(c)
}

func (h *Handler) trendingKeywords(c *gin.Context) {
	ranked("keywords", h.analytics.TrendingKeywords)(c)
}
