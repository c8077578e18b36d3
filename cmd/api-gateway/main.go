package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/talleres-api/api/swagger"
	"github.com/noah-isme/talleres-api/internal/handler"
	"github.com/noah-isme/talleres-api/internal/middleware"
	"github.com/noah-isme/talleres-api/internal/repository"
	"github.com/noah-isme/talleres-api/internal/service"
	"github.com/noah-isme/talleres-api/pkg/cache"
	"github.com/noah-isme/talleres-api/pkg/config"
	"github.com/noah-isme/talleres-api/pkg/export"
	"github.com/noah-isme/talleres-api/pkg/jobs"
	"github.com/noah-isme/talleres-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/talleres-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/talleres-api/pkg/middleware/requestid"
	"github.com/noah-isme/talleres-api/pkg/storage"
)

// @title Talleres API
// @version 1.0.0
// @description Workshop enrollment capture, confirmation and listing
// @BasePath /api/v1
// @schemes http

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	if (cfg.Store.Backend == config.StoreBackendFile || cfg.Store.Backend == "") && sameDir(cfg.Store.Dir, cfg.Exports.StorageDir) {
		return fmt.Errorf("STORE_DIR and EXPORTS_STORAGE_DIR must differ: export cleanup would purge the store")
	}

	backend, err := storage.OpenBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	defer backend.Close() //nolint:errcheck

	store := repository.NewEnrollmentStore(backend.KV, cfg.Store.Key, logr)
	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer store.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	checks := map[string]handler.ReadinessCheck{"store": backend.Ping}

	var cacheRepo service.CacheRepository = repository.NewMemoryCacheRepository()
	if cfg.Listings.CacheEnabled {
		client := backend.Redis
		if client == nil {
			client, err = cache.NewRedis(ctx, cfg.Redis)
			if err != nil {
				return fmt.Errorf("connect listing cache: %w", err)
			}
			defer client.Close() //nolint:errcheck
		}
		cacheRepo = repository.NewCacheRepository(client, "talleres:cache:", logr)
		checks["cache"] = redisPing(client)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Listings.SnapshotTTL, logr)

	enrollmentSvc := service.NewEnrollmentService(store, repository.NewCatalogRepository(),
		repository.NewStudentDirectory(repository.DefaultStudentSeed()), metrics, nil, logr)
	confirmationSvc := service.NewConfirmationService(enrollmentSvc, export.NewPDFExporter(), service.ConfirmationConfig{
		Institution:  cfg.Institution.Name,
		ShareBaseURL: cfg.Share.BaseURL,
	}, logr)
	listingSvc := service.NewListingService(store, cacheSvc, cfg.Listings.SnapshotTTL, logr)

	handlers := handler.Handlers{
		Enrollments:   handler.NewEnrollmentHandler(enrollmentSvc),
		Catalog:       handler.NewCatalogHandler(enrollmentSvc),
		Students:      handler.NewStudentHandler(enrollmentSvc),
		Confirmations: handler.NewConfirmationHandler(confirmationSvc),
		Listings:      handler.NewListingHandler(listingSvc),
	}

	if cfg.Exports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			return fmt.Errorf("init export storage: %w", err)
		}
		exportSvc := service.NewExportService(enrollmentSvc, repository.NewExportJobRepository(), files,
			storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL), metrics,
			service.ExportConfig{
				Enabled:         true,
				APIPrefix:       cfg.APIPrefix,
				ResultTTL:       cfg.Exports.SignedURLTTL,
				CleanupInterval: cfg.Exports.CleanupInterval,
			}, logr, &export.CSVExporter{BOM: true, Comma: cfg.Exports.CSVSeparator}, export.NewPDFExporter())
		queue := jobs.NewQueue("exports", exportSvc.Process, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			OnGiveUp:   exportSvc.MarkFailed,
			Logger:     logr,
		})
		exportSvc.AttachQueue(queue)
		queue.Start(ctx)
		defer queue.Stop()
		exportSvc.StartCleanup(ctx)
		handlers.Exports = handler.NewExportHandler(exportSvc)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/health", "/ready", "/metrics"))
	r.Use(middleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Register(r.Group(cfg.APIPrefix), handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", backend.Name)
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

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func redisPing(client *redis.Client) handler.ReadinessCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
