package checkout_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulcrum-shipping/internal/domain/checkout"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// payload decodifica un JSON literal igual que lo hace el webhook.
func payload(t *testing.T, raw string) any {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

// ──────────────────────────────────────────────────────────────────────────────
// Total
// ──────────────────────────────────────────────────────────────────────────────

func TestExtract_GrandTotalTienePrioridad(t *testing.T) {
	ctx := checkout.Extract(payload(t, `{"totals":{"grand_total":"120.50"},"subtotal":80}`))
	assert.Equal(t, "120.5", ctx.Total.String())
}

func TestExtract_PackageValueConDescuentoAntesQueSinDescuento(t *testing.T) {
	ctx := checkout.Extract(payload(t, `{"package_value":100,"package_value_with_discount":90}`))
	assert.Equal(t, "90", ctx.Total.String())
}

func TestExtract_CadenaVaciaNoCuentaComoTotal(t *testing.T) {
	ctx := checkout.Extract(payload(t, `{"grand_total":"  ","subtotal":"45"}`))
	assert.Equal(t, "45", ctx.Total.String())
}

func TestExtract_TotalNegativoSeIgnora(t *testing.T) {
	ctx := checkout.Extract(payload(t, `{"grand_total":-5,"base_subtotal":12}`))
	assert.Equal(t, "12", ctx.Total.String())
}

func TestExtract_TotalDesdeLineas(t *testing.T) {
	ctx := checkout.Extract(payload(t, `{"items":[
		{"row_total_incl_tax":30,"row_total":25},
		{"price":"10","qty":2}
	]}`))
	assert.Equal(t, "50", ctx.Total.String())
}

func TestExtract_TotalDesdeQuoteCuandoItemsSumaCero(t *testing.T) {
	ctx := checkout.Extract(payload(t, `{"items":[{"row_total":0}],"quote":{"items":[{"base_row_total":15}]}}`))
	assert.Equal(t, "15", ctx.Total.String())
}

func TestExtract_SinTotalDevuelveCero(t *testing.T) {
	ctx := checkout.Extract(payload(t, `{"foo":"bar"}`))
	assert.True(t, ctx.Total.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Cantidad de ítems
// ──────────────────────────────────────────────────────────────────────────────

func TestExtract_ItemCountDesdeAgregado(t *testing.T) {
	ctx := checkout.Extract(payload(t, `{"items_qty":"3.7"}`))
	assert.Equal(t, 3, ctx.ItemCount)
}

func TestExtract_ItemCountSumaCantidades(t *testing.T) {
	ctx := checkout.Extract(payload(t, `{"items":[{"qty":2},{"quantity":"3"},{"qty":"x"}]}`))
	assert.Equal(t, 6, ctx.ItemCount, "una cantidad no parseable cuenta como 1")
}

func TestExtract_ItemCountRecorridoProfundo(t *testing.T) {
	ctx := checkout.Extract(payload(t, `{"request":{"cartItems":[{"qty":4},"sku-1"]}}`))
	assert.Equal(t, 5, ctx.ItemCount)
}

func TestExtract_ItemCountMinimoUno(t *testing.T) {
	assert.Equal(t, 1, checkout.Extract(payload(t, `{}`)).ItemCount)
	assert.Equal(t, 1, checkout.Extract(nil).ItemCount)
	assert.Equal(t, 1, checkout.Extract(payload(t, `{"items_qty":0}`)).ItemCount)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tienda, grupo e invitado
// ──────────────────────────────────────────────────────────────────────────────

func TestExtract_StoreDesdeProbeDirecto(t *testing.T) {
	ctx := checkout.Extract(payload(t, `{"store":{"code":"  us "}}`))
	require.NotNil(t, ctx.StoreToken)
	assert.Equal(t, "us", *ctx.StoreToken)
}

func TestExtract_StoreNumericoSeConvierteATexto(t *testing.T) {
	ctx := checkout.Extract(payload(t, `{"quote":{"store_id":1}}`))
	require.NotNil(t, ctx.StoreToken)
	assert.Equal(t, "1", *ctx.StoreToken)
}

func TestExtract_StoreRecorridoProfundoDeterminista(t *testing.T) {
	raw := `{"z":{"store_code":"zz"},"a":{"StoreCode":"aa"}}`
	for i := 0; i < 20; i++ {
		ctx := checkout.Extract(payload(t, raw))
		require.NotNil(t, ctx.StoreToken)
		assert.Equal(t, "aa", *ctx.StoreToken)
	}
}

func TestExtract_GrupoCeroEsValido(t *testing.T) {
	ctx := checkout.Extract(payload(t, `{"customer_group_id":0}`))
	require.NotNil(t, ctx.CustomerGroupID)
	assert.Equal(t, "0", *ctx.CustomerGroupID)
}

func TestExtract_SinTiendaNiGrupo(t *testing.T) {
	ctx := checkout.Extract(payload(t, `{"grand_total":10}`))
	assert.Nil(t, ctx.StoreToken)
	assert.Nil(t, ctx.CustomerGroupID)
	assert.Equal(t, "unknown", ctx.StoreOrUnknown())
}

func TestExtract_InvitadoExplicito(t *testing.T) {
	ctx := checkout.Extract(payload(t, `{"customer_is_guest":"sí","customer_id":9}`))
	require.NotNil(t, ctx.IsGuest)
	assert.True(t, *ctx.IsGuest)
}

func TestExtract_ClienteConIDNoEsInvitado(t *testing.T) {
	ctx := checkout.Extract(payload(t, `{"quote":{"customer":{"id":"42"}}}`))
	require.NotNil(t, ctx.IsGuest)
	assert.False(t, *ctx.IsGuest)
}

func TestExtract_InvitadoDesconocido(t *testing.T) {
	ctx := checkout.Extract(payload(t, `{"customer_id":0}`))
	assert.Nil(t, ctx.IsGuest)
}

func TestExtract_PayloadNoObjetoNoFalla(t *testing.T) {
	for _, raw := range []string{`"texto"`, `42`, `[1,2,3]`, `null`} {
		ctx := checkout.Extract(payload(t, raw))
		assert.True(t, ctx.Total.IsZero(), raw)
		assert.GreaterOrEqual(t, ctx.ItemCount, 1, raw)
	}
}
