package resolution_test

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulcrum-shipping/internal/application/dto"
	"github.com/jhoicas/fulcrum-shipping/internal/application/resolution"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/shipping"
	"github.com/jhoicas/fulcrum-shipping/internal/infrastructure/commerce/commercetest"
	"github.com/jhoicas/fulcrum-shipping/internal/infrastructure/filestore"
	"github.com/jhoicas/fulcrum-shipping/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newRepo(t *testing.T) *filestore.CustomizationRepo {
	t.Helper()
	s, err := filestore.NewFSStoreWithFs(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	return filestore.NewCustomizationRepository(s, "", logger.Nop())
}

func upsert(t *testing.T, repo *filestore.CustomizationRepo, patch entity.CustomizationPatch) {
	t.Helper()
	_, err := repo.Upsert(context.Background(), "default", patch)
	require.NoError(t, err)
}

// brokenRepo simula un almacenamiento caído.
type brokenRepo struct{ *filestore.CustomizationRepo }

func (brokenRepo) Get(context.Context, string, string) (entity.Customization, error) {
	return entity.Customization{}, errors.New("almacenamiento caído")
}

func cart(total float64) map[string]any {
	return map[string]any{"grand_total": total, "store_code": "default"}
}

func carrier(code string) entity.NativeCarrier {
	return entity.NativeCarrier{Code: code, Title: "Carrier " + code, Active: true}
}

func diag(o entity.Offer, key string) string {
	for _, d := range o.Diagnostics {
		if d.Key == key {
			return d.Value
		}
	}
	return ""
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_OrdenDelRegistro(t *testing.T) {
	repo := newRepo(t)
	upsert(t, repo, entity.CustomizationPatch{"code": "B", "stores": []any{"*"}, "price": 5})
	upsert(t, repo, entity.CustomizationPatch{"code": "A", "stores": []any{"default"}, "price": 9.99})
	upsert(t, repo, entity.CustomizationPatch{"code": "C", "stores": []any{"*"}, "minimum": 100})

	reg := commercetest.New(carrier("B"), carrier("C"), carrier("A"))
	uc := resolution.NewResolveUseCase(reg, repo, "default", shipping.DefaultConfig(), logger.Nop())

	res := uc.Resolve(context.Background(), cart(60))
	require.Equal(t, resolution.StatusResolved, res.Status)
	require.Len(t, res.Offers, 2)
	assert.Equal(t, "B", res.Offers[0].CarrierCode)
	assert.Equal(t, "A", res.Offers[1].CarrierCode)
	assert.Equal(t, "9.99", res.Offers[1].Price.String())

	require.Len(t, res.Excluded, 1)
	assert.Equal(t, "C", res.Excluded[0].Code)
	assert.Equal(t, shipping.ReasonBelowMinimum, res.Excluded[0].Reason)

	assert.Equal(t, "source", res.Offers[0].Diagnostics[0].Key)
	assert.Equal(t, resolution.SourceWithStore, diag(res.Offers[0], "source"))
	assert.Equal(t, "60", diag(res.Offers[0], "cart_total"))
}

func TestResolve_SinCoincidencias(t *testing.T) {
	reg := commercetest.New(carrier("FUL"))
	uc := resolution.NewResolveUseCase(reg, newRepo(t), "default", shipping.DefaultConfig(), logger.Nop())

	res := uc.Resolve(context.Background(), cart(10))
	assert.Equal(t, resolution.StatusNoMatch, res.Status)
	assert.Empty(t, res.Offers)

	ops := res.Operations()
	require.Len(t, ops, 1)
	assert.Equal(t, dto.ErrorCarrierCode, ops[0].Value.CarrierCode)
	assert.Equal(t, resolution.MessageNoMatch, ops[0].Value.MethodTitle)
	assert.Zero(t, ops[0].Value.Price)
}

func TestResolve_RegistroCaido(t *testing.T) {
	reg := commercetest.New(carrier("FUL"))
	reg.Err = errors.New("dial tcp: connection refused")
	uc := resolution.NewResolveUseCase(reg, newRepo(t), "default", shipping.DefaultConfig(), logger.Nop())

	res := uc.Resolve(context.Background(), cart(10))
	assert.Equal(t, resolution.StatusSkipped, res.Status)
	assert.Contains(t, res.Message, "REST fetch error")
}

func TestResolve_RegistroConErrorHTTP(t *testing.T) {
	reg := commercetest.New(carrier("FUL"))
	reg.FailStatus["LIST"] = 503
	uc := resolution.NewResolveUseCase(reg, newRepo(t), "default", shipping.DefaultConfig(), logger.Nop())

	res := uc.Resolve(context.Background(), cart(10))
	assert.Equal(t, resolution.StatusSkipped, res.Status)
	assert.Equal(t, `REST HTTP 503 {"message":"forced failure"}`, res.Message)
}

func TestResolve_SinConfiguracion(t *testing.T) {
	uc := resolution.NewResolveUseCase(nil, newRepo(t), "default", shipping.DefaultConfig(), logger.Nop())

	res := uc.Resolve(context.Background(), cart(10))
	assert.Equal(t, resolution.StatusConfigError, res.Status)
	assert.Equal(t, resolution.MessageMissingBaseURL, res.Message)
}

func TestResolve_RepositorioCaidoDegrada(t *testing.T) {
	reg := commercetest.New(carrier("FUL"))
	cfg := shipping.DefaultConfig()
	cfg.Policy.Store = shipping.StorePermissive
	uc := resolution.NewResolveUseCase(reg, brokenRepo{newRepo(t)}, "default", cfg, logger.Nop())

	res := uc.Resolve(context.Background(), cart(10))
	require.Equal(t, resolution.StatusResolved, res.Status, "con tienda permisiva un registro vacío sí ofrece")
	require.Len(t, res.Offers, 1)
	assert.True(t, res.Offers[0].Price.IsZero())
}

func TestResolve_SinRepositorio(t *testing.T) {
	reg := commercetest.New(carrier("FUL"))
	cfg := shipping.DefaultConfig()
	cfg.Policy.Store = shipping.StorePermissive
	uc := resolution.NewResolveUseCase(reg, nil, "default", cfg, logger.Nop())

	res := uc.Resolve(context.Background(), cart(10))
	require.Len(t, res.Offers, 1)
	assert.Equal(t, resolution.SourceRegistryOnly, diag(res.Offers[0], "source"))
}

func TestResolve_CarritoIrreconocible(t *testing.T) {
	repo := newRepo(t)
	upsert(t, repo, entity.CustomizationPatch{"code": "FUL", "stores": []any{"*"}, "price": 2, "price_per_item": true})
	uc := resolution.NewResolveUseCase(commercetest.New(carrier("FUL")), repo, "default", shipping.DefaultConfig(), logger.Nop())

	res := uc.Resolve(context.Background(), "no es un objeto")
	require.Equal(t, resolution.StatusResolved, res.Status)
	assert.Equal(t, 1, res.Cart.ItemCount)
	assert.Equal(t, "2", res.Offers[0].Price.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Operaciones de salida
// ──────────────────────────────────────────────────────────────────────────────

func TestOperations_PrecioEnTresCampos(t *testing.T) {
	repo := newRepo(t)
	upsert(t, repo, entity.CustomizationPatch{"code": "FUL", "stores": []any{"*"}, "price": 9.99, "method_name": "Express"})
	uc := resolution.NewResolveUseCase(commercetest.New(carrier("FUL")), repo, "default", shipping.DefaultConfig(), logger.Nop())

	ops := uc.Resolve(context.Background(), cart(20)).Operations()
	require.Len(t, ops, 1)
	v := ops[0].Value
	assert.Equal(t, "add", ops[0].Op)
	assert.Equal(t, "result", ops[0].Path)
	assert.Equal(t, "express", v.Method)
	assert.Equal(t, "Express", v.MethodTitle)
	assert.Equal(t, 9.99, v.Amount)
	assert.Equal(t, v.Amount, v.Price)
	assert.Equal(t, v.Amount, v.Cost)
}

func TestNewErrorOperation_TituloCortado(t *testing.T) {
	long := make([]rune, 200)
	for i := range long {
		long[i] = 'x'
	}
	op := dto.NewErrorOperation(string(long))
	assert.Len(t, op.Value.MethodTitle, 140)
	assert.Equal(t, []dto.KeyValue{{Key: "source", Value: dto.ErrorSource}}, op.Value.AdditionalData)
}
