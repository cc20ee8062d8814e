// Package shipping contiene el evaluador puro de ofertas de envío y el esquema de los
// campos personalizables de una transportadora.
package shipping

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/tolerant"
)

// Reason motivo de exclusión de una transportadora.
type Reason string

const (
	ReasonInactive        Reason = "inactive"
	ReasonBelowMinimum    Reason = "below_minimum"
	ReasonAboveMaximum    Reason = "above_maximum"
	ReasonStoreUnset      Reason = "store_unset"
	ReasonStoreMismatch   Reason = "store_mismatch"
	ReasonGroupUnset      Reason = "group_unset"
	ReasonGroupMismatch   Reason = "group_mismatch"
	ReasonGuestOnly       Reason = "guest_only"
	ReasonEvaluationError Reason = "evaluation_error"
)

// Literales de respaldo para títulos y códigos.
const (
	DefaultMethodTitle  = "Shipping Method"
	DefaultCarrierTitle = "Fulcrum Custom Shipping"
	DefaultCarrierCode  = "CUSTOM"
)

// Outcome resultado de evaluar una transportadora: una oferta o un motivo de exclusión.
type Outcome struct {
	Offer  entity.Offer
	Reason Reason
	Detail string
}

// Included indica si la transportadora produjo oferta.
func (o Outcome) Included() bool { return o.Reason == "" }

func exclude(r Reason, format string, args ...any) Outcome {
	return Outcome{Reason: r, Detail: fmt.Sprintf(format, args...)}
}

// CodeKey clave con la que se busca la personalización: el código nativo o, si falta,
// el slug del nombre del método o del título.
func CodeKey(native entity.NativeCarrier) string {
	if code := strings.TrimSpace(native.Code); code != "" {
		return code
	}
	title := tolerant.FirstNonBlank(native.MethodName, native.Title, DefaultMethodTitle)
	return tolerant.Slugify(title, "custom")
}

// Evaluate combina una transportadora nativa, su personalización y el contexto del carrito.
// Orden fijo: actividad, umbrales, tienda, grupo, precio y títulos. Es una función pura;
// un pánico interno excluye solo a esta transportadora.
func Evaluate(native entity.NativeCarrier, custom entity.Customization, cart entity.CartContext, cfg Config) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = exclude(ReasonEvaluationError, "%v", r)
		}
	}()

	// 1. Actividad
	if !native.Active || (custom.Enabled != nil && !*custom.Enabled) {
		return exclude(ReasonInactive, "carrier %s inactivo", native.Code)
	}

	// 2. Umbrales: mínimo inclusivo, máximo exclusivo; 0 = sin restricción
	minimum := limit(custom.Minimum)
	maximum := limit(custom.Maximum)
	if minimum != nil && cart.Total.LessThan(*minimum) {
		return exclude(ReasonBelowMinimum, "total %s < mínimo %s", cart.Total, minimum)
	}
	if maximum != nil && cart.Total.GreaterThanOrEqual(*maximum) {
		return exclude(ReasonAboveMaximum, "total %s >= máximo %s", cart.Total, maximum)
	}

	// 3. Tiendas
	if r := storeReason(custom.Stores, cart, cfg.Policy.Store); r != "" {
		return exclude(r, "tienda %s, configuradas %v", cart.StoreOrUnknown(), custom.Stores)
	}

	// 4. Grupos de cliente
	if r := groupReason(custom.CustomerGroups, cart, cfg.Policy); r != "" {
		return exclude(r, "grupo %s, configurados %v", deref(cart.CustomerGroupID), custom.CustomerGroups)
	}

	// 5. Precio
	unit := cfg.DefaultPrice
	switch {
	case custom.Price != nil:
		unit = *custom.Price
	case custom.Value != nil:
		unit = *custom.Value
	}
	price := unit
	if custom.PricePerItem {
		price = unit.Mul(decimal.NewFromInt(int64(cart.ItemCount)))
	}

	// 6. Títulos y códigos
	customMethod := deref(custom.MethodName)
	methodTitle := tolerant.FirstNonBlank(customMethod, native.MethodName, native.Title, DefaultMethodTitle)
	methodCode := tolerant.Slugify(
		tolerant.FirstNonBlank(customMethod, native.MethodName, native.Code, methodTitle),
		tolerant.FirstNonBlank(native.Code, "custom")+"_shipping",
	)
	carrierTitle := tolerant.FirstNonBlank(deref(custom.CarrierTitle), native.Title, DefaultCarrierTitle)

	sortOrder := native.SortOrder
	if custom.SortOrder != nil {
		sortOrder = custom.SortOrder
	}

	return Outcome{Offer: entity.Offer{
		CarrierCode:  tolerant.FirstNonBlank(native.Code, DefaultCarrierCode),
		CarrierTitle: carrierTitle,
		MethodCode:   methodCode,
		MethodTitle:  methodTitle,
		Amount:       price,
		Price:        price,
		Cost:         price,
		SortOrder:    sortOrder,
		Diagnostics: []entity.Diagnostic{
			{Key: "code_key", Value: CodeKey(native)},
			{Key: "cart_total", Value: cart.Total.String()},
			{Key: "min", Value: limitString(minimum)},
			{Key: "max", Value: limitString(maximum)},
			{Key: "req_store", Value: cart.StoreOrUnknown()},
			{Key: "cfg_stores", Value: jsonList(custom.Stores)},
			{Key: "customer_group", Value: tolerant.FirstNonBlank(deref(cart.CustomerGroupID), "unknown")},
		},
	}}
}

func limit(d *decimal.Decimal) *decimal.Decimal {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}

func limitString(d *decimal.Decimal) string {
	if d == nil {
		return "none"
	}
	return d.String()
}

func jsonList(in []string) string {
	if in == nil {
		in = []string{}
	}
	b, _ := json.Marshal(in)
	return string(b)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
