package entity

import "strings"

// NativeCarrier representa una transportadora tal como la conoce el registro externo de Commerce
// (V1/oope_shipping_carrier). El motor solo la lee, salvo durante la reconciliación.
type NativeCarrier struct {
	ID                      string
	Code                    string // identidad estable y única
	Title                   string
	MethodName              string   // algunos registros lo exponen; opcional
	Active                  bool     // ya interpretado de forma tolerante (true/1/"yes"/"sí"...)
	Stores                  []string // tokens de tienda o comodín
	Countries               []string
	SortOrder               *int // solo metadato de presentación
	TrackingAvailable       bool
	ShippingLabelsAvailable bool
}

// StoreView vista de tienda expuesta por V1/store/storeConfigs.
type StoreView struct {
	ID                         int    `json:"id"`
	Code                       string `json:"code"`
	WebsiteID                  *int   `json:"website_id,omitempty"`
	Locale                     string `json:"locale,omitempty"`
	BaseCurrencyCode           string `json:"base_currency_code,omitempty"`
	DefaultDisplayCurrencyCode string `json:"default_display_currency_code,omitempty"`
	Timezone                   string `json:"timezone,omitempty"`
	WeightUnit                 string `json:"weight_unit,omitempty"`
	BaseURL                    string `json:"base_url,omitempty"`
	SecureBaseURL              string `json:"secure_base_url,omitempty"`
}

// CustomerGroup grupo de clientes de Commerce.
type CustomerGroup struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
}

// CarrierPayload cuerpo aceptado por POST/PUT de V1/oope_shipping_carrier.
type CarrierPayload struct {
	Code                    string   `json:"code"`
	Title                   string   `json:"title,omitempty"`
	Stores                  []string `json:"stores,omitempty"`
	Countries               []string `json:"countries,omitempty"`
	SortOrder               *int     `json:"sort_order,omitempty"`
	Active                  *bool    `json:"active,omitempty"`
	TrackingAvailable       *bool    `json:"tracking_available,omitempty"`
	ShippingLabelsAvailable *bool    `json:"shipping_labels_available,omitempty"`
}

// HasTitle indica si el título no está en blanco; el REST lo exige en POST y PUT.
func (p CarrierPayload) HasTitle() bool { return strings.TrimSpace(p.Title) != "" }
