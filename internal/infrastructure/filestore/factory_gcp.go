//go:build gcp

package filestore

import (
	"context"

	"github.com/jhoicas/fulcrum-shipping/internal/domain/repository"
	"github.com/jhoicas/fulcrum-shipping/pkg/config"
)

func newGCSStore(ctx context.Context, cfg config.StorageConfig) (repository.ByteStore, func(), error) {
	s, err := NewGCSStore(ctx, GCSStoreConfig{Bucket: cfg.GCSBucket, Prefix: cfg.GCSPrefix})
	if err != nil {
		return nil, func() {}, err
	}
	return s, func() { _ = s.Close() }, nil
}
