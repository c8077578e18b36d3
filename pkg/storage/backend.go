package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/talleres-api/pkg/cache"
	"github.com/noah-isme/talleres-api/pkg/config"
	"github.com/noah-isme/talleres-api/pkg/database"
)

const redisKVPrefix = "talleres:kv"

// Backend is an opened persistence port together with the connections behind it.
type Backend struct {
	Name  string
	KV    KeyValue
	Redis *redis.Client
	DB    *sqlx.DB
}

// OpenBackend builds the persistence port selected by STORE_BACKEND.
func OpenBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{Name: cfg.Store.Backend}
	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		b.KV = NewMemoryKV()
	case config.StoreBackendFile, "":
		b.Name = config.StoreBackendFile
		files, err := NewLocalStorage(cfg.Store.Dir)
		if err != nil {
			return nil, err
		}
		b.KV = NewFileKV(files)
	case config.StoreBackendRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		b.Redis = client
		b.KV = NewRedisKV(client, redisKVPrefix)
	case config.StoreBackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		kv := NewPostgresKV(db)
		if err := kv.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		b.DB = db
		b.KV = kv
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	return b, nil
}

// Ping checks the network connection behind the port, if any.
func (b *Backend) Ping(ctx context.Context) error {
	switch {
	case b.Redis != nil:
		return b.Redis.Ping(ctx).Err()
	case b.DB != nil:
		return b.DB.PingContext(ctx)
	default:
		return nil
	}
}

// Close releases the connections behind the port.
func (b *Backend) Close() error {
	var errs []error
	if b.Redis != nil {
		errs = append(errs, b.Redis.Close())
	}
	if b.DB != nil {
		errs = append(errs, b.DB.Close())
	}
	return errors.Join(errs...)
}
