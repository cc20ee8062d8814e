package dto

import (
	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
)

// Literales de la operación de diagnóstico que se devuelve cuando no hay ofertas.
const (
	ErrorCarrierCode  = "FULCRUM"
	ErrorCarrierTitle = "Fulcrum Custom Shipping (ERROR)"
	ErrorMethod       = "fulcrum_error"
	ErrorSource       = "shipping-methods error"
	maxErrorTitle     = 140
)

// KeyValue entrada de additional_data.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ShippingMethodValue valor de una operación "add" sobre "result".
// Amount, Price y Cost llevan siempre el mismo número.
type ShippingMethodValue struct {
	CarrierCode    string     `json:"carrier_code"`
	CarrierTitle   string     `json:"carrier_title"`
	Method         string     `json:"method"`
	MethodTitle    string     `json:"method_title"`
	Amount         float64    `json:"amount"`
	Price          float64    `json:"price"`
	Cost           float64    `json:"cost"`
	SortOrder      *int       `json:"sort_order,omitempty"`
	AdditionalData []KeyValue `json:"additional_data"`
}

// ShippingOperation operación del webhook de métodos de envío.
type ShippingOperation struct {
	Op    string              `json:"op"`
	Path  string              `json:"path"`
	Value ShippingMethodValue `json:"value"`
}

// NewOfferOperation convierte una oferta en operación "add".
func NewOfferOperation(o entity.Offer) ShippingOperation {
	data := make([]KeyValue, 0, len(o.Diagnostics))
	for _, d := range o.Diagnostics {
		data = append(data, KeyValue{Key: d.Key, Value: d.Value})
	}
	return ShippingOperation{
		Op:   "add",
		Path: "result",
		Value: ShippingMethodValue{
			CarrierCode:    o.CarrierCode,
			CarrierTitle:   o.CarrierTitle,
			Method:         o.MethodCode,
			MethodTitle:    o.MethodTitle,
			Amount:         o.Amount.InexactFloat64(),
			Price:          o.Price.InexactFloat64(),
			Cost:           o.Cost.InexactFloat64(),
			SortOrder:      o.SortOrder,
			AdditionalData: data,
		},
	}
}

// NewErrorOperation operación de diagnóstico con precio 0; el título se corta a 140 runas.
func NewErrorOperation(title string) ShippingOperation {
	if r := []rune(title); len(r) > maxErrorTitle {
		title = string(r[:maxErrorTitle])
	}
	return ShippingOperation{
		Op:   "add",
		Path: "result",
		Value: ShippingMethodValue{
			CarrierCode:    ErrorCarrierCode,
			CarrierTitle:   ErrorCarrierTitle,
			Method:         ErrorMethod,
			MethodTitle:    title,
			AdditionalData: []KeyValue{{Key: "source", Value: ErrorSource}},
		},
	}
}
