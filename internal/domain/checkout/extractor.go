// Package checkout deriva el CartContext a partir de un payload de checkout sin esquema fijo.
// Ninguna función de este paquete falla: cada señal termina en un valor por defecto seguro.
package checkout

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/tolerant"
)

// Extract produce el CartContext: total (0 por defecto), cantidad de ítems (mínimo 1),
// tienda, grupo de cliente e invitado (nil si no se puede resolver).
func Extract(payload any) entity.CartContext {
	ctx := entity.CartContext{
		Total:     Total(payload),
		ItemCount: ItemCount(payload),
	}
	if s, ok := Store(payload); ok {
		ctx.StoreToken = &s
	}
	if g, ok := CustomerGroup(payload); ok {
		ctx.CustomerGroupID = &g
	}
	ctx.IsGuest = Guest(payload)
	return ctx
}

// Total prueba los campos de total en orden y, si ninguno sirve, suma las líneas del carrito.
func Total(payload any) decimal.Decimal {
	for _, p := range TotalProbes {
		v, ok := p.Lookup(payload)
		if !ok {
			continue
		}
		if n, ok := tolerant.Number(v); ok && !n.IsNegative() {
			return n
		}
	}
	for _, p := range ItemArrayProbes {
		items, ok := itemArray(payload, p)
		if !ok {
			continue
		}
		if sum := sumRows(items); sum.IsPositive() {
			return sum
		}
	}
	return decimal.Zero
}

func sumRows(items []any) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			continue
		}
		qty := quantity(row)
		if total := pick(row, RowTotalProbes); total != nil {
			sum = sum.Add(*total)
			continue
		}
		if unit := pick(row, UnitPriceProbes); unit != nil {
			sum = sum.Add(unit.Mul(decimal.NewFromFloat(qty)))
		}
	}
	return sum
}

// quantity lee la cantidad de una línea; valores no parseables o no positivos cuentan como 1.
func quantity(row any) float64 {
	for _, p := range QuantityProbes {
		v, ok := p.Lookup(row)
		if !ok {
			continue
		}
		n, ok := tolerant.Number(v)
		if !ok || !n.IsPositive() {
			return 1
		}
		return n.InexactFloat64()
	}
	return 1
}

// ItemCount usa agregados directos, luego la suma de cantidades del primer arreglo de líneas
// no vacío y por último un recorrido profundo. Nunca devuelve menos de 1.
func ItemCount(payload any) int {
	for _, p := range ItemCountProbes {
		v, ok := p.Lookup(payload)
		if !ok {
			continue
		}
		if n, ok := tolerant.Number(v); ok && n.IsPositive() {
			return atLeastOne(n.Floor())
		}
	}
	for _, p := range ItemArrayProbes {
		items, ok := itemArray(payload, p)
		if !ok || len(items) == 0 {
			continue
		}
		return atLeastOne(sumQuantities(items))
	}
	var found []any
	walk(payload, func(key string, value any) bool {
		arr, ok := value.([]any)
		if ok && len(arr) > 0 && strings.Contains(strings.ToLower(key), "items") {
			found = arr
			return true
		}
		return false
	})
	if found != nil {
		return atLeastOne(sumQuantities(found))
	}
	return 1
}

func sumQuantities(items []any) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		if row, ok := item.(map[string]any); ok {
			sum = sum.Add(decimal.NewFromFloat(quantity(row)))
			continue
		}
		sum = sum.Add(decimal.NewFromInt(1))
	}
	return sum
}

func atLeastOne(d decimal.Decimal) int {
	n := int(d.IntPart())
	if n < 1 {
		return 1
	}
	return n
}

// Store resuelve el token de tienda.
func Store(payload any) (string, bool) {
	return firstNonBlank(payload, StoreProbes, StoreScanKeys)
}

// CustomerGroup resuelve el grupo de cliente. "0" (NOT LOGGED IN) es un valor válido.
func CustomerGroup(payload any) (string, bool) {
	return firstNonBlank(payload, CustomerGroupProbes, GroupScanKeys)
}

// Guest devuelve true/false si hay una bandera explícita; si no, un id de cliente positivo
// implica "autenticado"; en otro caso nil (desconocido).
func Guest(payload any) *bool {
	for _, p := range GuestProbes {
		if v, ok := p.Lookup(payload); ok {
			if b, ok := tolerant.ExplicitBool(v); ok {
				return &b
			}
		}
	}
	if v, ok := scanKeys(payload, GuestScanKeys, isExplicitBool); ok {
		b, _ := tolerant.ExplicitBool(v)
		return &b
	}
	if hasPositiveCustomerID(payload) {
		notGuest := false
		return &notGuest
	}
	return nil
}

func hasPositiveCustomerID(payload any) bool {
	for _, p := range CustomerIDProbes {
		if v, ok := p.Lookup(payload); ok && isPositive(v) {
			return true
		}
	}
	_, ok := scanKeys(payload, CustomerIDScanKeys, isPositive)
	return ok
}

func firstNonBlank(payload any, probes []Probe, scan []string) (string, bool) {
	for _, p := range probes {
		if v, ok := p.Lookup(payload); ok {
			if s, ok := tolerant.NonBlank(v); ok {
				return s, true
			}
		}
	}
	if v, ok := scanKeys(payload, scan, isNonBlank); ok {
		return tolerant.NonBlank(v)
	}
	return "", false
}

func itemArray(payload any, p Probe) ([]any, bool) {
	v, ok := p.Lookup(payload)
	if !ok {
		return nil, false
	}
	items, ok := v.([]any)
	return items, ok
}

func pick(row any, probes []Probe) *decimal.Decimal {
	for _, p := range probes {
		if v, ok := p.Lookup(row); ok {
			if n, ok := tolerant.Number(v); ok {
				return &n
			}
		}
	}
	return nil
}

func isNonBlank(v any) bool {
	_, ok := tolerant.NonBlank(v)
	return ok
}

func isExplicitBool(v any) bool {
	_, ok := tolerant.ExplicitBool(v)
	return ok
}

func isPositive(v any) bool {
	n, ok := tolerant.Number(v)
	return ok && n.IsPositive()
}
