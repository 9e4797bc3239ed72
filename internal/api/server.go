// Package api serves the read-only HTTP query API over the analytics engine.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/0x0BSoD/cryptoSentiment/internal/analytics"
	"github.com/0x0BSoD/cryptoSentiment/internal/logger"
	"github.com/0x0BSoD/cryptoSentiment/internal/model"
)

const shutdownTimeout = 10 * time.Second

type Analytics interface {
	Articles(ctx context.Context, q analytics.ListQuery) (analytics.ArticlePage, error)
	Latest(ctx context.Context, limit int) ([]model.Article, error)
	Article(ctx context.Context, id int64) (*model.Article, error)
	SentimentStats(ctx context.Context, from, to time.Time) (analytics.SentimentCounts, error)
	SentimentTrend(ctx context.Context, q analytics.TrendQuery) ([]analytics.TrendPoint, error)
	TopSources(ctx context.Context, days, limit int) ([]analytics.GroupStat, error)
	AssetStats(ctx context.Context, days, limit int) ([]analytics.GroupStat, error)
	CategoryStats(ctx context.Context, days, limit int) ([]analytics.GroupStat, error)
	ChainStats(ctx context.Context, days, limit int) ([]analytics.GroupStat, error)
	TrendingKeywords(ctx context.Context, days, limit int) ([]analytics.KeywordCount, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	analytics Analytics
	db        Pinger
	started   time.Time
}

func NewHandler(analytics Analytics, db Pinger) *Handler {
	return &Handler{analytics: analytics, db: db, started: time.Now()}
}

// NewRouter constructs a gin engine with all routes registered.
func NewRouter(h *Handler) *gin.Engine {
	useFormNames()

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", h.health)
	r.GET("/ready", h.ready)

	articles := r.Group("/api/articles")
	articles.GET("", h.listArticles)
	articles.GET("/latest", h.latestArticles)
	articles.GET("/:id", h.getArticle)

	stats := r.Group("/api/stats")
	stats.GET("/sentiment", h.sentimentStats)
	stats.GET("/trend", h.sentimentTrend)
	stats.GET("/sources", h.topSources)
	stats.GET("/assets", h.assetStats)
	stats.GET("/categories", h.categoryStats)
	stats.GET("/chains", h.chainStats)
	stats.GET("/keywords", h.trendingKeywords)

	return r
}

type Server struct {
	http *http.Server
}

func NewServer(addr string, h *Handler) *Server {
	return &Server{
		http: &http.Server{
			Addr:         addr,
			Handler:      NewRouter(h),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}
}

// Start serves until the context is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", s.http.Addr))
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
