//go:build !gcp

package filestore

import (
	"context"
	"fmt"

	"github.com/jhoicas/fulcrum-shipping/internal/domain/repository"
	"github.com/jhoicas/fulcrum-shipping/pkg/config"
)

func newGCSStore(_ context.Context, _ config.StorageConfig) (repository.ByteStore, func(), error) {
	return nil, func() {}, fmt.Errorf("GCS no está habilitado en este binario (compilar con -tags gcp)")
}
