// Package main запускает HTTP-сервер витрины SoleMates.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/solemates/internal/config"
	"github.com/mmeshcher/solemates/internal/genai"
	"github.com/mmeshcher/solemates/internal/handler"
	"github.com/mmeshcher/solemates/internal/middleware"
	"github.com/mmeshcher/solemates/internal/repository"
	"github.com/mmeshcher/solemates/internal/service"
	"github.com/mmeshcher/solemates/internal/storefront"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		sugar.Warnw("failed to load .env", "error", err.Error())
	}

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	catalog := repository.NewCatalogStore(repository.SeedProducts())
	ledger := repository.NewOrderLedger(repository.SeedOrders())

	aiClient := genai.NewClient(genai.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.AIBaseURL,
		Model:   cfg.AIModel,
		Timeout: cfg.AITimeout,
	}, logger)
	if !aiClient.Configured() {
		sugar.Warn("API_KEY is not set, description generation is disabled")
	}

	svc := service.NewService(catalog, ledger, repository.SeedSales(), aiClient, logger,
		storefront.WithDelays(cfg.ProcessingDelay, cfg.RedirectDelay),
	)
	defer svc.Close()

	if cfg.ClientSecret == "" {
		sugar.Warn("CLIENT_SECRET is not set, client cookies will not survive a restart")
	}
	clientMiddleware := middleware.NewClientMiddleware(cfg.ClientSecret)
	h := handler.NewHandler(svc, logger, clientMiddleware)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Фоновое удаление состояний бездействующих клиентов
	g.Go(func() error {
		svc.StartEviction(ctx, cfg.ClientIdleTimeout)
		return nil
	})

	g.Go(func() error {
		sugar.Infow("starting solemates server", "addr", cfg.RunAddress, "model", cfg.AIModel)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		if err := svc.Close(); err != nil {
			return fmt.Errorf("service close error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
