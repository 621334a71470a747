package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/swasthya-ai/swasthya/internal/application"
	appanalysis "github.com/swasthya-ai/swasthya/internal/application/analysis"
	"github.com/swasthya-ai/swasthya/internal/config"
	domain "github.com/swasthya-ai/swasthya/internal/domain/analysis"
	openaic "github.com/swasthya-ai/swasthya/internal/infra/ai/openai"
	"github.com/swasthya-ai/swasthya/internal/infra/db/localstore"
	"github.com/swasthya-ai/swasthya/internal/infra/db/mongodb"
	mysqlp "github.com/swasthya-ai/swasthya/internal/infra/db/mysql"
	postgresp "github.com/swasthya-ai/swasthya/internal/infra/db/postgres"
	"github.com/swasthya-ai/swasthya/internal/infra/httpserver"
	minioStore "github.com/swasthya-ai/swasthya/internal/infra/storage"
	"github.com/swasthya-ai/swasthya/internal/middleware"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	repo, storeCheck, cleanup, err := openRepository(ctx, cfg)
	if err != nil {
		logger.Fatal("record store init error", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer cleanup()

	aiClient := openaic.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	aiClient.TranscribeModel = cfg.OpenAI.TranscriptionModel

	// Media archiving is optional; without MinIO uploads are analyzed but
	// not retained.
	var media domain.MediaStore
	if cfg.MinioEnabled() {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			logger.Fatal("minio init error", zap.Error(err))
		}
		media = store
	}

	svc := &appanalysis.Service{
		Repo:  repo,
		AI:    aiClient,
		Media: media,
		Clock: application.SystemClock{},
		Log:   logger,
	}

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	mux.Use(middleware.Logging(logger))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.Identity)
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	checkers := map[string]middleware.HealthChecker{"store": storeCheck}
	mux.Mount("/", httpserver.NewRouter(svc, checkers, logger))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", addr), zap.String("driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
}

// openRepository picks the record store backend from config. All four
// satisfy the same domain port; the returned checker feeds /health.
func openRepository(ctx context.Context, cfg *config.Config) (domain.Repository, middleware.HealthChecker, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, nil, err
		}
		if err := mysqlp.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return mysqlp.NewRecordRepository(db), &middleware.DatabaseHealthChecker{DB: db}, func() { db.Close() }, nil

	case config.DriverPostgres:
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgresp.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return postgresp.NewRecordRepository(db), &middleware.DatabaseHealthChecker{DB: db}, func() { db.Close() }, nil

	case config.DriverMongo:
		cli, err := mongodb.Connect(ctx, cfg.Database.URI)
		if err != nil {
			return nil, nil, nil, err
		}
		repo := mongodb.NewRecordRepository(cli.Database(cfg.Database.Name))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = cli.Disconnect(context.Background())
			return nil, nil, nil, err
		}
		return repo, middleware.CheckerFunc(repo.Ping), func() { _ = cli.Disconnect(context.Background()) }, nil

	case config.DriverLocal:
		store, err := localstore.Open(cfg.Database.DataDir)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, middleware.CheckerFunc(store.Ping), func() { store.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
