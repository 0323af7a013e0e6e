package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sakhi383/Walmart-Cost-Splitter/config"
	httpDelivery "github.com/sakhi383/Walmart-Cost-Splitter/internal/delivery/http"
	"github.com/sakhi383/Walmart-Cost-Splitter/internal/infrastructure/browser"
	"github.com/sakhi383/Walmart-Cost-Splitter/internal/infrastructure/cache"
	"github.com/sakhi383/Walmart-Cost-Splitter/internal/infrastructure/logging"
	"github.com/sakhi383/Walmart-Cost-Splitter/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting splitcart backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.Duration("session_ttl", cfg.Session.TTL),
	)

	store := cache.NewMemorySessionStore(cfg.Session.CleanupInterval)
	defer store.Close()

	extraction := usecase.NewExtractionService(usecase.ExtractionServiceConfig{
		Timeout:          cfg.Extraction.Timeout,
		MaxAncestorDepth: cfg.Extraction.MaxAncestorDepth,
	}, logger)

	split := usecase.NewSplitService(store, usecase.SplitServiceConfig{
		SessionTTL:     cfg.Session.TTL,
		MaxPeople:      cfg.Split.MaxPeople,
		DefaultTaxRate: decimal.NewFromFloat(cfg.Split.DefaultTaxRate),
	}, logger)

	// Live extraction is optional
	var live httpDelivery.LiveSources
	client, err := browser.NewClient(browser.Config{
		DebuggerURL:       cfg.Browser.DebuggerURL,
		RenderWait:        cfg.Extraction.RenderWait,
		TargetURLContains: cfg.Browser.TargetURLContains,
	}, logger)
	if err == nil {
		live = client
		logger.Info("live extraction enabled", zap.String("debugger_url", cfg.Browser.DebuggerURL))
	} else {
		logger.Info("live extraction disabled", zap.Error(err))
	}

	handler := httpDelivery.NewHandler(extraction, split, live, cfg.Extraction.MaxDocumentBytes, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
