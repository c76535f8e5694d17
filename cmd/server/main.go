package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/taskhub/internal/api"
	"github.com/lalith-99/taskhub/internal/cache"
	"github.com/lalith-99/taskhub/internal/config"
	"github.com/lalith-99/taskhub/internal/db"
	"github.com/lalith-99/taskhub/internal/observ"
	"github.com/lalith-99/taskhub/internal/repository/postgres"
	"github.com/lalith-99/taskhub/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Startup has no deadline; once serving, every request carries its own
	// context and the pool hands out one connection per request.
	database, err := db.New(context.Background(), cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()
	pool := database.Pool()

	// The backend is chosen exactly once here; handlers only ever see the
	// interface (plus the concrete *Local for the two local-only endpoints).
	var (
		backend storage.Backend
		local   *storage.Local
	)
	switch cfg.StorageBackend {
	case config.BackendS3:
		s3Backend, err := storage.NewS3(context.Background(), cfg.AWSRegion, cfg.AWSS3Bucket)
		if err != nil {
			return fmt.Errorf("init s3 backend: %w", err)
		}
		backend = s3Backend
	default:
		local, err = storage.NewLocal(cfg.LocalStorageDir)
		if err != nil {
			return fmt.Errorf("init local backend: %w", err)
		}
		backend = local
	}
	logger.Info("storage backend ready", zap.String("backend", cfg.StorageBackend))

	// Redis is optional: without it the lookup endpoints just hit Postgres
	// every time (a nil *cache.Cache always misses).
	var lookupCache *cache.Cache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		lookupCache = cache.New(redis.NewClient(opts), "taskhub:", 30*time.Second)
		if err := lookupCache.Ping(context.Background()); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		defer lookupCache.Close()
		logger.Info("lookup cache enabled")
	}

	taskRepo := postgres.NewTaskStore(pool)
	attachmentRepo := postgres.NewAttachmentStore(pool)
	lookupRepo := postgres.NewLookupStore(pool)

	taskHandler := api.NewTaskHandler(taskRepo, logger)
	attachmentHandler := api.NewAttachmentHandler(
		attachmentRepo, taskRepo, backend, local,
		cfg.AWSS3Prefix, cfg.PresignExpires, logger,
	)
	lookupHandler := api.NewLookupHandler(lookupRepo, lookupCache, logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	// Public health check for load balancers.
	srv.GET("/health", func(c *gin.Context) {
		if err := database.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv.GET("/todos/", taskHandler.List)
	srv.POST("/todos/", taskHandler.Create)
	srv.GET("/todos/:id", taskHandler.GetByID)
	srv.PATCH("/todos/:id", taskHandler.Patch)
	srv.DELETE("/todos/:id", taskHandler.Delete)

	srv.GET("/users", lookupHandler.Users)
	srv.GET("/tags", lookupHandler.Tags)
	srv.GET("/departments", lookupHandler.Departments)
	srv.GET("/roles", lookupHandler.Roles)

	srv.POST("/attachments/tasks/:task_id/presign-upload", attachmentHandler.PresignUpload)
	srv.GET("/attachments/tasks/:task_id", attachmentHandler.ListByTask)
	srv.POST("/attachments/tasks/:task_id/upload-direct", attachmentHandler.UploadDirect)
	srv.GET("/attachments/:id/download-url", attachmentHandler.DownloadURL)
	srv.DELETE("/attachments/:id", attachmentHandler.Delete)
	srv.GET("/attachments/local-download", attachmentHandler.LocalDownload)

	logger.Info("starting taskhub",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)
	return srv.Run(":" + cfg.Port)
}
