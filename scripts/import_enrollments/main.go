package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/talleres-api/internal/models"
	"github.com/noah-isme/talleres-api/internal/repository"
	"github.com/noah-isme/talleres-api/pkg/config"
	"github.com/noah-isme/talleres-api/pkg/logger"
	"github.com/noah-isme/talleres-api/pkg/storage"
)

func main() {
	var (
		inputPath string
		backend   string
		timeout   time.Duration
	)

	flag.StringVar(&inputPath, "input", "", "Path to a JSON array of enrollments")
	flag.StringVar(&backend, "backend", "", "Override STORE_BACKEND")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Overall import timeout")
	flag.Parse()

	if inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if backend != "" {
		cfg.Store.Backend = backend
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	records, err := loadRecords(inputPath)
	if err != nil {
		logr.Fatal("read input", zap.String("path", inputPath), zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	added, err := importRecords(ctx, cfg, records, logr)
	if err != nil {
		logr.Fatal("import failed", zap.Error(err))
	}

	logr.Info("import finished",
		zap.String("backend", cfg.Store.Backend),
		zap.Int("read", len(records)),
		zap.Int("added", added),
		zap.Int("skipped", len(records)-added),
	)
}

func importRecords(ctx context.Context, cfg *config.Config, records []models.Enrollment, logr *zap.Logger) (int, error) {
	b, err := storage.OpenBackend(ctx, cfg)
	if err != nil {
		return 0, fmt.Errorf("open store: %w", err)
	}
	defer b.Close() //nolint:errcheck

	store := repository.NewEnrollmentStore(b.KV, cfg.Store.Key, logr)
	if err := store.Init(ctx); err != nil {
		return 0, fmt.Errorf("init store: %w", err)
	}
	defer store.Close() //nolint:errcheck

	return store.Import(ctx, records)
}

func loadRecords(path string) ([]models.Enrollment, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []models.Enrollment
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}
