package filestore

import (
	"context"
	"fmt"

	"github.com/jhoicas/fulcrum-shipping/internal/domain/repository"
	"github.com/jhoicas/fulcrum-shipping/internal/infrastructure/postgres"
	"github.com/jhoicas/fulcrum-shipping/pkg/config"
)

// StoreType backend del ByteStore.
type StoreType string

const (
	StoreTypeFS       StoreType = "fs"
	StoreTypeS3       StoreType = "s3"
	StoreTypeRedis    StoreType = "redis"
	StoreTypePostgres StoreType = "postgres"
	StoreTypeGCS      StoreType = "gcs"
)

// NewByteStore crea el backend indicado por STORAGE_TYPE. El closer libera conexiones
// y siempre es no nil.
func NewByteStore(ctx context.Context, cfg config.StorageConfig, db config.DBConfig) (repository.ByteStore, func(), error) {
	noop := func() {}
	switch StoreType(cfg.Type) {
	case "", StoreTypeFS:
		s, err := NewFSStore(cfg.Dir)
		return s, noop, err
	case StoreTypeS3:
		s, err := NewS3Store(ctx, S3StoreConfig{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
			Prefix:   cfg.S3Prefix,
		})
		return s, noop, err
	case StoreTypeRedis:
		client, err := NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("ping redis: %w", err)
		}
		return NewRedisStore(client, cfg.RedisNamespace), func() { _ = client.Close() }, nil
	case StoreTypePostgres:
		pool, err := postgres.NewPool(ctx, db)
		if err != nil {
			return nil, noop, err
		}
		s := postgres.NewFileStore(pool)
		if err := s.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return s, pool.Close, nil
	case StoreTypeGCS:
		return newGCSStore(ctx, cfg)
	}
	return nil, noop, fmt.Errorf("tipo de almacenamiento no soportado: %s", cfg.Type)
}
