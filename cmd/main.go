// Copyright (c) 2024, 0x0BSoD. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/0x0BSoD/cryptoSentiment/internal/analytics"
	"github.com/0x0BSoD/cryptoSentiment/internal/api"
	"github.com/0x0BSoD/cryptoSentiment/internal/classifier"
	"github.com/0x0BSoD/cryptoSentiment/internal/config"
	"github.com/0x0BSoD/cryptoSentiment/internal/dedup"
	"github.com/0x0BSoD/cryptoSentiment/internal/fetcher"
	"github.com/0x0BSoD/cryptoSentiment/internal/ingest"
	"github.com/0x0BSoD/cryptoSentiment/internal/logger"
	"github.com/0x0BSoD/cryptoSentiment/internal/reporter"
	"github.com/0x0BSoD/cryptoSentiment/internal/source"
	"github.com/0x0BSoD/cryptoSentiment/internal/storage"
	"github.com/0x0BSoD/cryptoSentiment/internal/worker"
)

func main() {
	cfg := config.Get()

	logger.Init(cfg.LogLevel)
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("service stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := sqlx.Connect("postgres", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer db.Close()

	if err := storage.Migrate(db.DB); err != nil {
		return err
	}

	articleStorage := storage.NewArticleStorage(db)

	gate := dedup.New(articleStorage)
	if err := gate.Warm(ctx); err != nil {
		return fmt.Errorf("warm dedup cache: %w", err)
	}

	feeds, err := source.Registry(cfg.Feeds)
	if err != nil {
		return err
	}
	sources := make([]fetcher.Source, 0, len(feeds))
	for _, feed := range feeds {
		sources = append(sources, source.NewRSSSourceFromModel(feed, cfg.FeedTimeout))
	}

	completer, err := newCompleter(cfg)
	if err != nil {
		return err
	}
	sentimentClassifier, err := classifier.New(completer, classifier.Mode(cfg.ClassifierMode), cfg.AIPrompt)
	if err != nil {
		return err
	}

	var alerts *reporter.Reporter
	if cfg.TelegramBotToken != "" {
		if alerts, err = reporter.NewTelegram(cfg.TelegramBotToken, cfg.TelegramAdminChatID); err != nil {
			logger.Warn("admin reporting disabled", zap.Error(err))
		}
	}
	logger.Info("admin reporting", zap.Bool("enabled", alerts.Enabled()))

	cycle := ingest.New(
		fetcher.New(sources, cfg.ItemsPerFeed),
		gate,
		sentimentClassifier,
		articleStorage,
		alerts,
	)

	gin.SetMode(gin.ReleaseMode)
	server := api.NewServer(cfg.HTTPAddr, api.NewHandler(analytics.New(articleStorage), articleStorage))

	var wg sync.WaitGroup
	wg.Add(2)

	go func(ctx context.Context) {
		defer wg.Done()
		if err := worker.NewPeriodic(cycle, cfg.FetchInterval).Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("ingestion worker failed", zap.Error(err))
		}
	}(ctx)

	serverErr := make(chan error, 1)
	go func(ctx context.Context) {
		defer wg.Done()
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErr <- err
			cancel()
			return
		}
		logger.Info("http server stopped")
	}(ctx)

	wg.Wait()

	select {
	case err := <-serverErr:
		return fmt.Errorf("run http server: %w", err)
	default:
		return nil
	}
}

func newCompleter(cfg config.Config) (classifier.Completer, error) {
	switch cfg.AIType {
	case "openai":
		if cfg.AIKey == "" {
			return nil, errors.New(`ai_key is required when ai_type is "openai"`)
		}
		logger.Info("using OpenAI-compatible classifier", zap.String("model", cfg.AIModel))
		return classifier.NewOpenAICompleter(cfg.AIBaseURL, cfg.AIKey, cfg.AIModel, cfg.AITimeout), nil
	default:
		if cfg.AIBaseURL == "" {
			return nil, errors.New(`ai_base_url is required when ai_type is "ollama"`)
		}
		logger.Info("using Ollama classifier", zap.String("model", cfg.AIModel))
		completer, err := classifier.NewOllamaCompleter(cfg.AIBaseURL, cfg.AIModel, cfg.AITimeout)
		if err != nil {
			return nil, err
		}
		return completer, nil
	}
}
