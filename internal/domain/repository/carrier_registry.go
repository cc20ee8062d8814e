package repository

import (
	"context"

	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
)

// CallResult resultado crudo de una llamada al registro externo, para diagnóstico.
type CallResult struct {
	Success    bool
	StatusCode int
	Body       string
	Method     string
}

// CarrierRegistry puerto hacia el registro de transportadoras de Commerce.
// El error solo se usa para fallos de transporte; los códigos HTTP viajan en CallResult.
type CarrierRegistry interface {
	ListCarriers(ctx context.Context) ([]entity.NativeCarrier, CallResult, error)
	// GetByCode devuelve nil con StatusCode 404 si no existe.
	GetByCode(ctx context.Context, code string) (*entity.NativeCarrier, CallResult, error)
	Create(ctx context.Context, payload entity.CarrierPayload) (CallResult, error)
	// Replace borra y vuelve a crear; ignora el fallo del DELETE.
	Replace(ctx context.Context, code string, payload entity.CarrierPayload) (CallResult, error)
	Update(ctx context.Context, code string, payload entity.CarrierPayload) (CallResult, error)
	Delete(ctx context.Context, code string) (CallResult, error)
	ListStores(ctx context.Context) ([]entity.StoreView, CallResult, error)
	ListCustomerGroups(ctx context.Context) ([]entity.CustomerGroup, CallResult, error)
}
