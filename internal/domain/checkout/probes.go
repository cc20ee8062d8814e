package checkout

import "github.com/PaesslerAG/jsonpath"

// Probe es una ruta JSONPath que se evalúa sobre el payload del checkout.
// Las listas de probes son datos exportados: el orden define la prioridad.
type Probe string

// Lookup evalúa el probe; rutas inexistentes o valores nil cuentan como ausentes.
func (p Probe) Lookup(doc any) (any, bool) {
	v, err := jsonpath.Get(string(p), doc)
	if err != nil || v == nil {
		return nil, false
	}
	return v, true
}

// TotalProbes candidatos del total del carrito, en orden de prioridad.
var TotalProbes = []Probe{
	// Totales
	"$.totals.grand_total", "$.totals.base_grand_total",
	"$.grand_total", "$.base_grand_total",
	// Valor del paquete
	"$.package_value_with_discount", "$.packageValueWithDiscount",
	"$.package_value", "$.packageValue",
	// Subtotales (con/sin impuestos)
	"$.subtotal_incl_tax", "$.base_subtotal_incl_tax",
	"$.totals.subtotal_with_discount", "$.totals.base_subtotal_with_discount",
	"$.subtotal_with_discount", "$.base_subtotal_with_discount",
	"$.subtotal", "$.base_subtotal",
}

// ItemArrayProbes ubicaciones convencionales del arreglo de líneas.
var ItemArrayProbes = []Probe{
	"$.items", "$.all_items",
	"$.quote.items", "$.quote.all_items",
	"$.cart.items", "$.order.items",
}

// RowTotalProbes total por línea: con descuento, con impuesto, sin impuesto y luego variantes base.
var RowTotalProbes = []Probe{
	"$.row_total_with_discount",
	"$.row_total_incl_tax",
	"$.row_total",
	"$.base_row_total_incl_tax",
	"$.base_row_total",
}

// UnitPriceProbes precio unitario cuando la línea no trae total.
var UnitPriceProbes = []Probe{
	"$.price", "$.base_price", "$.price_incl_tax", "$.base_price_incl_tax",
}

// QuantityProbes variantes del nombre de la cantidad en una línea.
var QuantityProbes = []Probe{
	"$.qty", "$.quantity", "$.qty_ordered", "$.qty_to_ship",
}

// ItemCountProbes agregados directos de cantidad de ítems.
var ItemCountProbes = []Probe{
	"$.items_qty", "$.itemsQty",
	"$.totals.items_qty", "$.quote.items_qty",
	"$.items_count", "$.quote.items_count",
}

// StoreProbes candidatos del identificador de tienda.
var StoreProbes = []Probe{
	"$.store_code", "$.storeCode", "$.store.code",
	"$.storeId", "$.store_id", "$.quote.store_id",
	"$.extension_attributes.store_id", "$.address.store_id",
}

// CustomerGroupProbes candidatos del grupo de cliente.
var CustomerGroupProbes = []Probe{
	"$.customer_group_id", "$.customer_group", "$.customerGroupId",
	"$.customer.group_id", "$.quote.customer_group_id",
	"$.extension_attributes.customer_group_id",
}

// GuestProbes banderas explícitas de compra como invitado.
var GuestProbes = []Probe{
	"$.customer_is_guest", "$.is_guest", "$.isGuest",
	"$.quote.customer_is_guest", "$.customer.is_guest",
	"$.extension_attributes.customer_is_guest",
}

// CustomerIDProbes identificadores de cliente; uno positivo implica "no invitado".
var CustomerIDProbes = []Probe{
	"$.customer_id", "$.customerId", "$.customer.id",
	"$.quote.customer_id", "$.quote.customer.id",
}

// Nombres de clave para el recorrido profundo de último recurso.
var (
	StoreScanKeys      = []string{"store_code", "storeCode", "store_id", "storeId"}
	GroupScanKeys      = []string{"customer_group_id", "customerGroupId", "group_id"}
	GuestScanKeys      = []string{"customer_is_guest", "is_guest", "isGuest"}
	CustomerIDScanKeys = []string{"customer_id", "customerId"}
)
