package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/media-storage-adapter/internal/adapter/handler"
	adapterstorage "github.com/marcos-nsantos/media-storage-adapter/internal/adapter/storage"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/auth"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/cache"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/config"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/metrics"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/middleware"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/observability"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/server"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/storage"
	"github.com/marcos-nsantos/media-storage-adapter/internal/usecase/media"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	// Infrastructure services
	store, err := newObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal("failed to create object store", zap.Error(err), zap.String("driver", cfg.Storage.Driver))
	}
	transcoder := storage.NewWebPTranscoder(cfg.Image)
	jwtSvc := auth.NewJWTService(cfg.JWT, 0)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		var redisClient *redis.Client
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			// The limiter fails open per request; start anyway and keep retrying lazily.
			logger.Warn("redis unavailable at startup", zap.Error(err))
			redisClient = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr(),
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
		}
		defer func() { _ = redisClient.Close() }()
		rateLimiter = middleware.NewRateLimiter(redisClient, cfg.RateLimit, logger)
	}

	// Use cases
	mediaSvc, err := media.NewService(store, transcoder, media.Config{PublicDomain: cfg.Storage.PublicDomain}, logger)
	if err != nil {
		logger.Fatal("failed to create media service", zap.Error(err))
	}

	// Handlers
	mediaHandler := handler.NewMediaHandler(mediaSvc, cfg.Image.MaxUploadSize, logger)

	// Router
	router := server.NewRouter(server.RouterConfig{
		MediaHandler:   mediaHandler,
		AuthMiddleware: middleware.NewAuthMiddleware(jwtSvc),
		RateLimiter:    rateLimiter,
		Logger:         logger,
		Environment:    cfg.Server.Environment,
	})

	logger.Info("media storage adapter configured",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("bucket", cfg.Storage.Bucket),
		zap.String("public_domain", cfg.Storage.PublicDomain),
		zap.Int("max_width", transcoder.MaxWidth()),
		zap.Int("quality", transcoder.Quality()),
		zap.Bool("rate_limit", rateLimiter != nil),
	)

	srv := server.NewServer(cfg.Server, router.Engine(), logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
	}

	logger.Info("server stopped")
}

func newObjectStore(cfg config.StorageConfig) (adapterstorage.ObjectStore, error) {
	switch cfg.Driver {
	case config.DriverS3:
		s3Store, err := storage.NewS3Storage(cfg)
		if err != nil {
			return nil, err
		}
		return s3Store, nil
	case config.DriverMinio:
		minioStore, err := storage.NewMinioStorage(cfg)
		if err != nil {
			return nil, err
		}
		return minioStore, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
