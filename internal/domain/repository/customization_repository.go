package repository

import (
	"context"

	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
)

// CustomizationRepository define el puerto de persistencia para Customization (DIP).
// Un documento por storeKey; como máximo un registro por (storeKey, code).
type CustomizationRepository interface {
	// Get devuelve un registro vacío (sin error) si no existe.
	Get(ctx context.Context, storeKey, code string) (entity.Customization, error)
	List(ctx context.Context, storeKey string) ([]entity.Customization, error)
	Upsert(ctx context.Context, storeKey string, patch entity.CustomizationPatch) (entity.Customization, error)
	Delete(ctx context.Context, storeKey, id string) (bool, error)
	DeleteByCode(ctx context.Context, storeKey, code string) (bool, error)
	StoreKeys(ctx context.Context) ([]string, error)
}
