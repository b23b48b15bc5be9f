package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"marketplace_backend/internal/app/di"
	"marketplace_backend/internal/app/router"
	offeradapters "marketplace_backend/internal/feature/offer/adapters"
	offerhandler "marketplace_backend/internal/feature/offer/transport/handler"
	offerusecase "marketplace_backend/internal/feature/offer/usecase"
	userhandler "marketplace_backend/internal/feature/user/transport/handler"
	userusecase "marketplace_backend/internal/feature/user/usecase"
	"marketplace_backend/internal/platform/config"
	"marketplace_backend/internal/platform/db"
	platformhandler "marketplace_backend/internal/platform/http/handler"
	"marketplace_backend/internal/platform/logger"
	"marketplace_backend/internal/platform/metrics"
	infraredis "marketplace_backend/internal/platform/redis"
)

func main() {
	// 設定読み込み前のエラー出力用
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))

	if err := run(); err != nil {
		zap.L().Error("server exited with error", zap.Error(err))
		_ = zap.L().Sync()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.AppEnv,
		ServiceName: cfg.ServiceName,
		Production:  cfg.IsProduction(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := db.Open(db.Config{
		Driver:         cfg.DB.Driver,
		DSN:            cfg.DatabaseURL,
		ConnectTimeout: cfg.DB.ConnectTimeout,
		RunMigrations:  cfg.RunMigrations,

		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}

	// Redis
	rdb, err := infraredis.NewRedisClient(ctx, infraredis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable. Running without cache.", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error("failed to close Redis client", zap.Error(err))
			}
		}()
	}

	uploader, err := di.NewImageUploader(ctx, cfg)
	if err != nil {
		return err
	}

	// Repository
	userRepo := di.NewUserRepository(gdb, rdb, cfg.SessionTTL)
	offerRepo := di.NewOfferRepository(gdb, rdb, cfg.CacheTTL)
	ownerRepo := offeradapters.NewOwnerGorm(gdb)

	// Usecase
	userUC := userusecase.NewUserUsecase(userRepo, uploader)
	offerUC := offerusecase.NewOfferUsecase(offerRepo, ownerRepo, uploader)

	var httpMetrics *metrics.HTTPMetrics
	if cfg.MetricsEnabled {
		httpMetrics = metrics.NewHTTPMetrics(cfg.ServiceName, nil)
	}

	// ルータ生成
	r := router.NewRouter(router.Deps{
		Logger:           log,
		Users:            userhandler.NewUserHandler(userUC),
		Offers:           offerhandler.NewOfferHandler(offerUC),
		Health:           platformhandler.NewHealthHandler(sqlDB),
		Auth:             userUC,
		Metrics:          httpMetrics,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server has started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
