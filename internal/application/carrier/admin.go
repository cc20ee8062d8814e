package carrier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/fulcrum-shipping/internal/application/dto"
	"github.com/jhoicas/fulcrum-shipping/internal/domain"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/repository"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/shipping"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/tolerant"
	"github.com/jhoicas/fulcrum-shipping/pkg/logger"
)

const (
	defaultStoreKey = "default"
	// Lecturas de personalización simultáneas durante el listado.
	enrichConcurrency = 8
)

// AdminUseCase listado, borrado y consultas de apoyo del panel.
type AdminUseCase struct {
	registry repository.CarrierRegistry
	repo     repository.CustomizationRepository
	log      *logger.Logger
}

// NewAdminUseCase construye el caso de uso.
func NewAdminUseCase(registry repository.CarrierRegistry, repo repository.CustomizationRepository, log *logger.Logger) *AdminUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AdminUseCase{registry: registry, repo: repo, log: log}
}

func registryError(op string, res repository.CallResult, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrRegistryUnavailable, err)
	}
	return fmt.Errorf("%s: %w: HTTP %d", op, domain.ErrRegistryUnavailable, res.StatusCode)
}

// List devuelve las transportadoras del registro con su personalización de storeKey; si la
// tienda no tiene registro para un código se usa el de "default".
func (uc *AdminUseCase) List(ctx context.Context, storeKey string) (*dto.CarrierListResponse, error) {
	if uc.registry == nil {
		return nil, domain.ErrMissingConfig
	}
	carriers, res, err := uc.registry.ListCarriers(ctx)
	if err != nil || !res.Success {
		return nil, registryError("listar transportadoras", res, err)
	}

	customs := make([]entity.Customization, len(carriers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, c := range carriers {
		i, key := i, shipping.CodeKey(c)
		g.Go(func() error {
			customs[i] = uc.lookup(gctx, storeKey, key)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]dto.CarrierView, 0, len(carriers))
	for i, c := range carriers {
		out = append(out, toCarrierView(c, customs[i]))
	}
	return &dto.CarrierListResponse{OK: true, Carriers: out}, nil
}

func (uc *AdminUseCase) lookup(ctx context.Context, storeKey, code string) entity.Customization {
	c, err := uc.repo.Get(ctx, storeKey, code)
	if err != nil {
		uc.log.Warn().Err(err).Str("code", code).Msg("personalización no disponible en el listado")
		return entity.Customization{}
	}
	if c.IsEmpty() && storeKey != defaultStoreKey {
		if d, err := uc.repo.Get(ctx, defaultStoreKey, code); err == nil {
			return d
		}
	}
	return c
}

func toCarrierView(c entity.NativeCarrier, custom entity.Customization) dto.CarrierView {
	v := dto.CarrierView{
		ID:                      c.ID,
		Code:                    c.Code,
		Title:                   c.Title,
		Stores:                  nonNil(c.Stores),
		Countries:               nonNil(c.Countries),
		SortOrder:               c.SortOrder,
		Active:                  c.Active,
		TrackingAvailable:       c.TrackingAvailable,
		ShippingLabelsAvailable: c.ShippingLabelsAvailable,
		MethodName:              custom.MethodName,
		Price:                   dto.FloatPtr(custom.Price),
		Value:                   dto.FloatPtr(custom.Value),
		Minimum:                 dto.FloatPtr(custom.Minimum),
		Maximum:                 dto.FloatPtr(custom.Maximum),
		CustomerGroups:          tolerant.IntSet(custom.CustomerGroups),
		PricePerItem:            custom.PricePerItem,
	}
	if v.Price != nil {
		v.Value = v.Price
	}
	if custom.Stores != nil {
		v.Stores = custom.Stores
	}
	return v
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// Delete borra la transportadora en el registro y su personalización en storeKey.
func (uc *AdminUseCase) Delete(ctx context.Context, storeKey, code string) (*dto.DeleteCarrierResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	if uc.registry == nil {
		return nil, domain.ErrMissingConfig
	}
	res, err := uc.registry.Delete(ctx, code)
	if err != nil {
		return nil, registryError("borrar transportadora", res, err)
	}

	stateDeleted, err := uc.repo.DeleteByCode(ctx, storeKey, code)
	if err != nil {
		uc.log.Warn().Err(err).Str("code", code).Msg("no se pudo borrar la personalización")
	}
	return &dto.DeleteCarrierResponse{
		OK:                true,
		Code:              code,
		DeletedInCommerce: res.Success && deleteConfirmed(res.Body),
		StateDeleted:      stateDeleted,
		DelRaw:            res.Body,
	}, nil
}

// deleteConfirmed acepta `true` o {"success": true} como confirmación del registro.
func deleteConfirmed(body string) bool {
	var parsed any
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return false
	}
	switch t := parsed.(type) {
	case bool:
		return t
	case map[string]any:
		b, _ := t["success"].(bool)
		return b
	}
	return false
}

// Stores vistas de tienda ordenadas por id descendente.
func (uc *AdminUseCase) Stores(ctx context.Context) (*dto.StoresResponse, error) {
	if uc.registry == nil {
		return nil, domain.ErrMissingConfig
	}
	items, res, err := uc.registry.ListStores(ctx)
	if err != nil || !res.Success {
		return nil, registryError("listar tiendas", res, err)
	}
	if items == nil {
		items = []entity.StoreView{}
	}
	return &dto.StoresResponse{Items: items}, nil
}

// CustomerGroups grupos de clientes del registro.
func (uc *AdminUseCase) CustomerGroups(ctx context.Context) (*dto.CustomerGroupsResponse, error) {
	if uc.registry == nil {
		return nil, domain.ErrMissingConfig
	}
	items, res, err := uc.registry.ListCustomerGroups(ctx)
	if err != nil || !res.Success {
		return nil, registryError("listar grupos de clientes", res, err)
	}
	if items == nil {
		items = []entity.CustomerGroup{}
	}
	return &dto.CustomerGroupsResponse{Items: items}, nil
}

// Customizations registros guardados para una tienda.
func (uc *AdminUseCase) Customizations(ctx context.Context, storeKey string) (*dto.CustomizationListResponse, error) {
	items, err := uc.repo.List(ctx, storeKey)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomizationView, 0, len(items))
	for _, c := range items {
		out = append(out, dto.NewCustomizationView(c))
	}
	return &dto.CustomizationListResponse{StoreKey: storeKey, Items: out}, nil
}
