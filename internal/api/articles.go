package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/0x0BSoD/cryptoSentiment/internal/analytics"
	"github.com/0x0BSoD/cryptoSentiment/internal/storage"
)

func (h *Handler) listArticles(c *gin.Context) {
	var p listParams
	if err := bindQuery(c, &p); err != nil {
		badRequest(c, err)
		return
	}
	label, err := p.label()
	if err != nil {
		badRequest(c, err)
		return
	}

	page, err := h.analytics.Articles(c.Request.Context(), analytics.ListQuery{
		Page:      value(p.Page),
		Limit:     value(p.Limit),
		Sentiment: label,
		Source:    p.Source,
		Asset:     p.Asset,
		Category:  p.Category,
		Chain:     p.Chain,
		Search:    p.Search,
		Days:      value(p.Days),
		OrderBy:   p.OrderBy,
		Asc:       p.Order == "asc",
	})
	if err != nil {
		internalError(c, "list articles", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) latestArticles(c *gin.Context) {
	var p limitParams
	if err := bindQuery(c, &p); err != nil {
		badRequest(c, err)
		return
	}

	articles, err := h.analytics.Latest(c.Request.Context(), value(p.Limit))
	if err != nil {
		internalError(c, "latest articles", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

func (h *Handler) getArticle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id: must be a positive integer"})
		return
	}

	article, err := h.analytics.Article(c.Request.Context(), id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	case err != nil:
		internalError(c, "get article", err)
		return
	}

	c.JSON(http.StatusOK, article)
}
