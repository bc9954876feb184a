// Package main запускает HTTP-сервер магазина товаров.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mmeshcher/goods-market/internal/config"
	"github.com/mmeshcher/goods-market/internal/handler"
	"github.com/mmeshcher/goods-market/internal/middleware"
	"github.com/mmeshcher/goods-market/internal/repository"
	"github.com/mmeshcher/goods-market/internal/seed"
	"github.com/mmeshcher/goods-market/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	if cfg.AuthSecret == "" {
		sugar.Warn("AUTH_SECRET is not set, session tokens will not survive a restart")
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}

	svc := service.NewService(repo)
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.CatalogSeed != "" {
		added, err := seed.Load(ctx, cfg.CatalogSeed, svc, logger)
		if err != nil {
			sugar.Fatalw("catalog seed error", "error", err.Error(), "path", cfg.CatalogSeed)
		}
		sugar.Infow("catalog seeded", "added", added, "path", cfg.CatalogSeed)
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.AuthSecret, cfg.TokenTTL)
	h := handler.NewHandler(svc, logger, authMiddleware)

	burst := int(cfg.LoginRate)
	if burst < 1 {
		burst = 1
	}

	r := h.SetupRouter(handler.RouterConfig{
		CORSOrigin:   cfg.CORSOrigin,
		LoginLimiter: middleware.NewClientLimiter(rate.Limit(cfg.LoginRate), burst),
	})

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting market server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Остановка по сигналу или при ошибке сервера.
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
