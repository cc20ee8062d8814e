package filestore

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/tolerant"
)

// toCustomization interpreta una entrada cruda. Acepta los alias min/minimum_amount,
// max/maximum_amount y value (precio legado).
func toCustomization(m map[string]any) entity.Customization {
	c := entity.Customization{
		ID:           str(m["id"]),
		Code:         str(m["code"]),
		MethodName:   strPtr(m["method_name"]),
		CarrierTitle: strPtr(m["carrier_title"]),
		Price:        tolerant.PickNumber(m["price"]),
		Value:        tolerant.PickNumber(m["value"]),
		Minimum:      limit(m["minimum"], m["min"], m["minimum_amount"]),
		Maximum:      limit(m["maximum"], m["max"], m["maximum_amount"]),
		Title:        str(m["title"]),
		Hint:         str(m["hint"]),
	}
	if v, ok := m["customer_groups"]; ok {
		c.CustomerGroups = tolerant.Strings(v)
	}
	if v, ok := m["stores"]; ok {
		c.Stores = tolerant.Strings(v)
	}
	if v, ok := m["countries"]; ok {
		c.Countries = tolerant.Strings(v)
	}
	if b, ok := tolerant.ExplicitBool(m["price_per_item"]); ok {
		c.PricePerItem = b
	}
	if b, ok := tolerant.ExplicitBool(m["enabled"]); ok {
		c.Enabled = &b
	}
	if d, ok := tolerant.Number(m["sort_order"]); ok {
		so := int(d.IntPart())
		c.SortOrder = &so
	}
	return c
}

// limit prefiere un límite real (distinto de 0) entre los alias; si solo hay ceros se
// conserva el 0 para que el registro se lea igual que se guardó.
func limit(vals ...any) *decimal.Decimal {
	if d := tolerant.PickLimit(vals...); d != nil {
		return d
	}
	return tolerant.PickNumber(vals...)
}

func str(v any) string {
	s, _ := tolerant.NonBlank(v)
	return s
}

func strPtr(v any) *string {
	s, ok := tolerant.NonBlank(v)
	if !ok {
		return nil
	}
	return &s
}
