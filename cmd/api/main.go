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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/learnhub-api/api/swagger"
	"github.com/noah-isme/learnhub-api/internal/handler"
	"github.com/noah-isme/learnhub-api/internal/middleware"
	"github.com/noah-isme/learnhub-api/internal/repository"
	"github.com/noah-isme/learnhub-api/internal/router"
	"github.com/noah-isme/learnhub-api/internal/seed"
	"github.com/noah-isme/learnhub-api/internal/service"
	"github.com/noah-isme/learnhub-api/pkg/cache"
	"github.com/noah-isme/learnhub-api/pkg/config"
	"github.com/noah-isme/learnhub-api/pkg/database"
	"github.com/noah-isme/learnhub-api/pkg/logger"
)

// @title LearnHub API
// @version 1.0.0
// @description E-learning marketplace: catalog, enrollments, progress tracking and dashboards
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	var redisClient *redis.Client
	if cfg.Store.Driver == config.StoreDriverRedis || cfg.Catalog.CacheEnabled || cfg.RateLimit.Enabled {
		redisClient, err = cache.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect redis", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	backend, err := openBackend(cfg, redisClient)
	if err != nil {
		logr.Sugar().Fatalw("failed to open record store", "driver", cfg.Store.Driver, "error", err)
	}
	store := repository.NewRecordStore(backend, validate, logger.Named(logr, "store"), metrics)
	defer store.Close() //nolint:errcheck

	if cfg.Store.Seed {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.Timeout)
		seeded, err := store.Seed(ctx, seed.Defaults())
		cancel()
		if err != nil {
			logr.Sugar().Fatalw("failed to seed record store", "error", err)
		}
		logr.Sugar().Infow("record store ready", "driver", cfg.Store.Driver, "seeded", len(seeded))
	}

	var cacheRepo service.CacheRepository
	if cfg.Catalog.CacheEnabled && redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logger.Named(logr, "cache"))
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Catalog.CacheTTL, logger.Named(logr, "cache"), cfg.Catalog.CacheEnabled)

	authSvc := service.NewAuthService(store, validate, logger.Named(logr, "auth"), service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	courseSvc := service.NewCourseService(store, cacheSvc, validate, logger.Named(logr, "courses"), service.CourseServiceConfig{
		PopularLimit: cfg.Catalog.PopularLimit,
		CacheTTL:     cfg.Catalog.CacheTTL,
	})
	enrollmentSvc := service.NewEnrollmentService(store, cacheSvc, metrics, logger.Named(logr, "enrollments"))
	dashboardSvc := service.NewDashboardService(store, logger.Named(logr, "dashboard"))

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled && redisClient != nil {
		limiter = middleware.NewRateLimiter(redisClient, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, logger.Named(logr, "ratelimit"))
	}

	r := router.New(router.Options{
		Config:      cfg,
		Logger:      logr,
		Tokens:      authSvc,
		Observer:    metrics,
		RateLimiter: limiter,
	}, router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Courses:    handler.NewCourseHandler(courseSvc),
		Enrollment: handler.NewEnrollmentHandler(enrollmentSvc),
		Dashboard:  handler.NewDashboardHandler(dashboardSvc),
		Metrics: handler.NewMetricsHandler(metrics, func(ctx context.Context) error {
			_, err := store.Courses(ctx)
			return err
		}),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

func openBackend(cfg *config.Config, redisClient *redis.Client) (repository.Backend, error) {
	switch cfg.Store.Driver {
	case "", config.StoreDriverMemory:
		return repository.NewMemoryBackend(), nil
	case config.StoreDriverBolt:
		db, err := database.NewBolt(cfg.Store.BoltPath)
		if err != nil {
			return nil, err
		}
		return repository.NewBoltBackend(db)
	case config.StoreDriverRedis:
		return repository.NewRedisBackend(redisClient, cfg.Store.KeyPrefix), nil
	case config.StoreDriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.Timeout)
		defer cancel()
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		backend := repository.NewPostgresBackend(db)
		if err := backend.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
