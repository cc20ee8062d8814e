package shipping_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/shipping"
)

func TestNormalize_PorTipo(t *testing.T) {
	assert.Nil(t, shipping.Normalize(shipping.KindString, ""))
	assert.Equal(t, "Express", shipping.Normalize(shipping.KindString, "Express"))
	assert.Equal(t, "12", shipping.Normalize(shipping.KindString, 12))

	assert.Equal(t, json.Number("9.5"), shipping.Normalize(shipping.KindNumber, "9.50"))
	assert.Nil(t, shipping.Normalize(shipping.KindNumber, "abc"))
	assert.Nil(t, shipping.Normalize(shipping.KindNumber, ""))

	assert.Equal(t, true, shipping.Normalize(shipping.KindBoolean, "sí"))
	assert.Equal(t, false, shipping.Normalize(shipping.KindBoolean, "off"))
	assert.Nil(t, shipping.Normalize(shipping.KindBoolean, ""))

	assert.Equal(t, []int{1, 2}, shipping.Normalize(shipping.KindIntSet, []any{"1", 2.0, "x", 1.5}))
	assert.Equal(t, []int{}, shipping.Normalize(shipping.KindIntSet, "1,2"))

	assert.Equal(t, []string{"us", "ca"}, shipping.Normalize(shipping.KindStringSet, []any{"us", "ca", "us", ""}))
}

func TestBuildPatch_RaizGanaSobreVariables(t *testing.T) {
	req := shipping.NewPatchRequest(map[string]any{
		"code":      "FUL",
		"value":     "5",
		"variables": map[string]any{"value": 9, "method_name": "Express"},
	})
	patch := shipping.BuildPatch(req)
	assert.Equal(t, json.Number("5"), patch["value"])
	assert.Equal(t, "Express", patch["method_name"])
}

func TestBuildPatch_SobrePresenteBorraAusentes(t *testing.T) {
	req := shipping.NewPatchRequest(map[string]any{
		"code":      "FUL",
		"stores":    []any{"default"},
		"variables": map[string]any{},
	})
	patch := shipping.BuildPatch(req)

	assert.Len(t, patch, len(shipping.CustomSchema))
	assert.Equal(t, []string{"default"}, patch["stores"])
	assert.Nil(t, patch["method_name"])
	assert.Nil(t, patch["minimum"])
	assert.Equal(t, []any{}, patch["customer_groups"])
	_, present := patch["price_per_item"]
	assert.True(t, present)
}

func TestBuildPatch_SinSobreNoTocaAusentes(t *testing.T) {
	patch := shipping.BuildPatch(shipping.NewPatchRequest(map[string]any{"code": "FUL", "minimum": 10}))
	assert.Equal(t, entity.CustomizationPatch{"minimum": json.Number("10")}, patch)
}

func TestBuildPatch_SobreNuloTambienBorra(t *testing.T) {
	patch := shipping.BuildPatch(shipping.NewPatchRequest(map[string]any{"code": "FUL", "variables": nil}))
	assert.Len(t, patch, len(shipping.CustomSchema))
}

func TestBuildNativePayload(t *testing.T) {
	p := shipping.BuildNativePayload(map[string]any{
		"code":        " FUL ",
		"title":       "Fulcrum",
		"stores":      "default, us, default",
		"countries":   []any{"CO", "US"},
		"sort_order":  "3",
		"active":      "false",
		"method_name": "ignorado",
	})
	assert.Equal(t, "FUL", p.Code)
	assert.True(t, p.HasTitle())
	assert.Equal(t, []string{"default", "us"}, p.Stores)
	assert.Equal(t, []string{"CO", "US"}, p.Countries)
	if assert.NotNil(t, p.SortOrder) {
		assert.Equal(t, 3, *p.SortOrder)
	}
	if assert.NotNil(t, p.Active) {
		assert.False(t, *p.Active)
	}
	assert.Nil(t, p.TrackingAvailable)

	raw, err := json.Marshal(p)
	assert.NoError(t, err)
	assert.NotContains(t, string(raw), "method_name")
}

func TestBuildNativePayload_TituloEnBlanco(t *testing.T) {
	assert.False(t, shipping.BuildNativePayload(map[string]any{"code": "FUL", "title": "  "}).HasTitle())
}
