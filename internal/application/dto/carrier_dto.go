package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
)

// CarrierView transportadora del registro enriquecida con su personalización.
type CarrierView struct {
	ID                      string   `json:"id,omitempty"`
	Code                    string   `json:"code"`
	Title                   string   `json:"title"`
	Stores                  []string `json:"stores"`
	Countries               []string `json:"countries"`
	SortOrder               *int     `json:"sort_order"`
	Active                  bool     `json:"active"`
	TrackingAvailable       bool     `json:"tracking_available"`
	ShippingLabelsAvailable bool     `json:"shipping_labels_available"`

	MethodName     *string  `json:"method_name"`
	Price          *float64 `json:"price"`
	Value          *float64 `json:"value"`
	Minimum        *float64 `json:"minimum"`
	Maximum        *float64 `json:"maximum"`
	CustomerGroups []int    `json:"customer_groups"`
	PricePerItem   bool     `json:"price_per_item"`
}

// CarrierListResponse salida de GET /api/carriers.
type CarrierListResponse struct {
	OK       bool          `json:"ok"`
	Carriers []CarrierView `json:"carriers"`
}

// CustomizationView registro de personalización tal como quedó persistido.
type CustomizationView struct {
	ID             string   `json:"id,omitempty"`
	Code           string   `json:"code,omitempty"`
	MethodName     *string  `json:"method_name"`
	CarrierTitle   *string  `json:"carrier_title,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	Value          *float64 `json:"value"`
	Minimum        *float64 `json:"minimum"`
	Maximum        *float64 `json:"maximum"`
	CustomerGroups []string `json:"customer_groups"`
	Stores         []string `json:"stores"`
	PricePerItem   bool     `json:"price_per_item"`
	Enabled        *bool    `json:"enabled,omitempty"`
	SortOrder      *int     `json:"sort_order,omitempty"`
}

// NewCustomizationView copia el registro a su forma JSON.
func NewCustomizationView(c entity.Customization) CustomizationView {
	return CustomizationView{
		ID:             c.ID,
		Code:           c.Code,
		MethodName:     c.MethodName,
		CarrierTitle:   c.CarrierTitle,
		Price:          FloatPtr(c.Price),
		Value:          FloatPtr(c.Value),
		Minimum:        FloatPtr(c.Minimum),
		Maximum:        FloatPtr(c.Maximum),
		CustomerGroups: orEmpty(c.CustomerGroups),
		Stores:         orEmpty(c.Stores),
		PricePerItem:   c.PricePerItem,
		Enabled:        c.Enabled,
		SortOrder:      c.SortOrder,
	}
}

// FloatPtr convierte un decimal opcional a float64 opcional para JSON.
func FloatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// ReconcileResponse salida de POST /api/carriers. Siempre viaja con HTTP 200; OK indica
// el estado lógico.
type ReconcileResponse struct {
	OK     bool   `json:"ok"`
	Method string `json:"method,omitempty"`

	// Éxito
	Carrier        *entity.CarrierPayload `json:"carrier,omitempty"`
	Commerce       string                 `json:"commerce,omitempty"`
	ReceivedCustom map[string]any         `json:"receivedCustom,omitempty"`
	SavedCustom    *CustomizationView     `json:"savedCustom,omitempty"`

	// Fallo del registro
	Message        string                 `json:"message,omitempty"`
	Status         int                    `json:"status,omitempty"`
	RequestCarrier *entity.CarrierPayload `json:"requestCarrier,omitempty"`
	Data           string                 `json:"data,omitempty"`
}

// DeleteCarrierResponse salida de DELETE /api/carriers/:code.
type DeleteCarrierResponse struct {
	OK                bool   `json:"ok"`
	Code              string `json:"code"`
	DeletedInCommerce bool   `json:"deletedInCommerce"`
	StateDeleted      bool   `json:"stateDeleted"`
	DelRaw            string `json:"delRaw"`
}

// StoresResponse salida de GET /api/stores.
type StoresResponse struct {
	Items []entity.StoreView `json:"items"`
}

// CustomerGroupsResponse salida de GET /api/customer-groups.
type CustomerGroupsResponse struct {
	Items []entity.CustomerGroup `json:"items"`
}

// CustomizationListResponse salida de GET /api/customizations/:storeKey.
type CustomizationListResponse struct {
	StoreKey string              `json:"storeKey"`
	Items    []CustomizationView `json:"items"`
}
