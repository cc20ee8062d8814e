package filestore_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/infrastructure/filestore"
	"github.com/jhoicas/fulcrum-shipping/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newRepo(t *testing.T) (*filestore.CustomizationRepo, *filestore.FSStore) {
	t.Helper()
	s := newMemStore(t)
	return filestore.NewCustomizationRepository(s, "", logger.Nop()), s
}

func rawDoc(t *testing.T, s *filestore.FSStore, key string) []map[string]any {
	t.Helper()
	data, err := s.Read(context.Background(), key)
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// NormalizeStoreKey
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeStoreKey(t *testing.T) {
	assert.Equal(t, "default", filestore.NormalizeStoreKey())
	assert.Equal(t, "default", filestore.NormalizeStoreKey("", "  "))
	assert.Equal(t, "ca,us", filestore.NormalizeStoreKey("us", " ca "))
	assert.Equal(t, "ca,us", filestore.NormalizeStoreKey("us,ca"))
	assert.Equal(t, filestore.NormalizeStoreKey("ca,us"), filestore.NormalizeStoreKey(filestore.NormalizeStoreKey("us", "ca")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Get / List
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_DocumentoAusenteDevuelveVacio(t *testing.T) {
	repo, _ := newRepo(t)
	c, err := repo.Get(context.Background(), "default", "FUL")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	list, err := repo.List(context.Background(), "default")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGet_AliasYTiposTolerantes(t *testing.T) {
	repo, s := newRepo(t)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, "fulcrum/carriers/default.json", []byte(`[
		{"id":"c_1","code":"FUL","min":"25","maximum":0,"value":"4.5","customer_groups":[1,2],
		 "stores":"default,us","price_per_item":"1","enabled":"true","extra":"x"}
	]`)))

	c, err := repo.Get(ctx, "default", "FUL")
	require.NoError(t, err)
	assert.Equal(t, "c_1", c.ID)
	require.NotNil(t, c.Minimum)
	assert.Equal(t, "25", c.Minimum.String())
	require.NotNil(t, c.Maximum)
	assert.True(t, c.Maximum.IsZero())
	require.NotNil(t, c.Value)
	assert.Equal(t, "4.5", c.Value.String())
	assert.Nil(t, c.Price)
	assert.Equal(t, []string{"1", "2"}, c.CustomerGroups)
	assert.Equal(t, []string{"default", "us"}, c.Stores)
	assert.True(t, c.PricePerItem)
	require.NotNil(t, c.Enabled)
	assert.True(t, *c.Enabled)
	assert.Nil(t, c.Countries, "clave ausente queda nil")
}

func TestGet_ClavesLegadas(t *testing.T) {
	repo, s := newRepo(t)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, "carrier_custom_FUL.json", []byte(`{nope`)))
	require.NoError(t, s.Write(ctx, "carrier_custom_FUL", []byte(`{"stores":["*"],"price":9.99}`)))

	c, err := repo.Get(ctx, "default", "FUL")
	require.NoError(t, err)
	assert.Equal(t, "FUL", c.Code)
	assert.Equal(t, []string{"*"}, c.Stores)
	assert.Equal(t, "9.99", c.Price.String())
}

func TestGet_DocumentoPrincipalGanaSobreLegado(t *testing.T) {
	repo, s := newRepo(t)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, "carrier_custom_FUL.json", []byte(`{"price":1}`)))
	_, err := repo.Upsert(ctx, "default", entity.CustomizationPatch{"code": "FUL", "price": 2})
	require.NoError(t, err)

	c, err := repo.Get(ctx, "default", "FUL")
	require.NoError(t, err)
	assert.Equal(t, "2", c.Price.String())
}

func TestGet_DocumentoMalformadoCuentaComoAusente(t *testing.T) {
	repo, s := newRepo(t)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, "fulcrum/carriers/default.json", []byte(`{"no es":"un arreglo"`)))

	c, err := repo.Get(ctx, "default", "FUL")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

// ──────────────────────────────────────────────────────────────────────────────
// Upsert / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestUpsert_SinIDGeneraID(t *testing.T) {
	repo, _ := newRepo(t)
	c, err := repo.Upsert(context.Background(), "default", entity.CustomizationPatch{"code": "FUL", "stores": []string{"*"}})
	require.NoError(t, err)
	assert.Regexp(t, `^c_[0-9a-f-]{36}$`, c.ID)
	assert.Equal(t, []string{"*"}, c.Stores)
}

func TestUpsert_FusionSuperficialConservaClavesDesconocidas(t *testing.T) {
	repo, s := newRepo(t)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, "fulcrum/carriers/us.json", []byte(`[{"id":"c_1","code":"FUL","hint":"h","legacy_flag":true,"price":3}]`)))

	c, err := repo.Upsert(ctx, "us", entity.CustomizationPatch{"id": "c_1", "price": 5, "stores": []any{}})
	require.NoError(t, err)
	assert.Equal(t, "5", c.Price.String())
	assert.Equal(t, "h", c.Hint)
	assert.Equal(t, []string{}, c.Stores)

	doc := rawDoc(t, s, "fulcrum/carriers/us.json")
	require.Len(t, doc, 1)
	assert.Equal(t, true, doc[0]["legacy_flag"])
}

func TestUpsert_SinIDFusionaPorCodigo(t *testing.T) {
	repo, s := newRepo(t)
	ctx := context.Background()
	first, err := repo.Upsert(ctx, "default", entity.CustomizationPatch{"code": "FUL", "price": 1})
	require.NoError(t, err)
	second, err := repo.Upsert(ctx, "default", entity.CustomizationPatch{"code": "FUL", "method_name": "Express"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "1", second.Price.String())
	assert.Len(t, rawDoc(t, s, "fulcrum/carriers/default.json"), 1)
}

func TestUpsert_IDDesconocidoSeConserva(t *testing.T) {
	repo, _ := newRepo(t)
	c, err := repo.Upsert(context.Background(), "default", entity.CustomizationPatch{"id": "c_fijo", "code": "X"})
	require.NoError(t, err)
	assert.Equal(t, "c_fijo", c.ID)
}

func TestUpsert_RoundTripEsFusion(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	_, err := repo.Upsert(ctx, "default", entity.CustomizationPatch{"id": "c_1", "code": "FUL", "minimum": 10, "stores": []string{"us"}})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, "default", entity.CustomizationPatch{"id": "c_1", "minimum": nil, "price_per_item": true})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "default", "FUL")
	require.NoError(t, err)
	want := entity.Customization{ID: "c_1", Code: "FUL", Stores: []string{"us"}, PricePerItem: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("registro inesperado (-want +got):\n%s", diff)
	}
}

func TestDelete_Idempotente(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	c, err := repo.Upsert(ctx, "default", entity.CustomizationPatch{"code": "FUL"})
	require.NoError(t, err)

	changed, err := repo.Delete(ctx, "default", c.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.Delete(ctx, "default", c.ID)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestDeleteByCode_BorraTambienLegado(t *testing.T) {
	repo, s := newRepo(t)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, "carrier_custom_FUL.json", []byte(`{"price":1}`)))

	changed, err := repo.DeleteByCode(ctx, "default", "FUL")
	require.NoError(t, err)
	assert.True(t, changed)

	c, err := repo.Get(ctx, "default", "FUL")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestStoreKeys(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	_, err := repo.Upsert(ctx, "us,ca", entity.CustomizationPatch{"code": "A"})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, "", entity.CustomizationPatch{"code": "B"})
	require.NoError(t, err)

	keys, err := repo.StoreKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ca,us", "default"}, keys)
}

func TestUpsert_ConcurrenteNoPierdeEscrituras(t *testing.T) {
	repo, s := newRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Upsert(ctx, "default", entity.CustomizationPatch{"code": string(rune('a' + i))})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Len(t, rawDoc(t, s, "fulcrum/carriers/default.json"), 20)
}

// TestUpsert_Idempotente dos upserts iguales dejan el mismo estado que uno.
func TestUpsert_Idempotente(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("upsert(x); upsert(x) == upsert(x)", prop.ForAll(
		func(id, code, method string, price float64) bool {
			patch := entity.CustomizationPatch{"id": "c_" + id, "code": code, "method_name": method, "price": price}

			once, s1 := newRepo(t)
			twice, s2 := newRepo(t)
			ctx := context.Background()
			if _, err := once.Upsert(ctx, "default", patch); err != nil {
				return false
			}
			for i := 0; i < 2; i++ {
				if _, err := twice.Upsert(ctx, "default", patch); err != nil {
					return false
				}
			}
			a, _ := s1.Read(ctx, "fulcrum/carriers/default.json")
			b, _ := s2.Read(ctx, "fulcrum/carriers/default.json")
			return string(a) == string(b)
		},
		gen.Identifier(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.Float64Range(0, 500),
	))

	properties.TestingRun(t)
}
