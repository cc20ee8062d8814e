package entity

import "github.com/shopspring/decimal"

// Customization es el registro local de precios y elegibilidad que se superpone a una
// transportadora nativa. Se direcciona por (storeKey, Code).
//
// Minimum/Maximum se guardan tal cual; el evaluador normaliza 0 como "sin restricción".
// Stores nil significa "no configurado"; un slice vacío significa "lista vacía".
type Customization struct {
	ID             string
	Code           string
	MethodName     *string
	CarrierTitle   *string
	Price          *decimal.Decimal
	Value          *decimal.Decimal // alias legado de Price
	Minimum        *decimal.Decimal
	Maximum        *decimal.Decimal
	CustomerGroups []string
	Stores         []string
	Countries      []string
	PricePerItem   bool
	Enabled        *bool
	SortOrder      *int
	Title          string
	Hint           string
}

// IsEmpty indica si el registro no tiene ningún campo poblado (lectura de un documento ausente).
func (c Customization) IsEmpty() bool {
	return c.ID == "" && c.Code == "" && c.MethodName == nil && c.CarrierTitle == nil &&
		c.Price == nil && c.Value == nil && c.Minimum == nil && c.Maximum == nil &&
		c.CustomerGroups == nil && c.Stores == nil && c.Countries == nil && !c.PricePerItem &&
		c.Enabled == nil && c.SortOrder == nil && c.Title == "" && c.Hint == ""
}

// Clone devuelve una copia profunda; el repositorio nunca entrega referencias a su estado.
func (c Customization) Clone() Customization {
	out := c
	out.MethodName = cloneString(c.MethodName)
	out.CarrierTitle = cloneString(c.CarrierTitle)
	out.Price = cloneDecimal(c.Price)
	out.Value = cloneDecimal(c.Value)
	out.Minimum = cloneDecimal(c.Minimum)
	out.Maximum = cloneDecimal(c.Maximum)
	out.CustomerGroups = cloneStrings(c.CustomerGroups)
	out.Stores = cloneStrings(c.Stores)
	out.Countries = cloneStrings(c.Countries)
	if c.Enabled != nil {
		v := *c.Enabled
		out.Enabled = &v
	}
	if c.SortOrder != nil {
		v := *c.SortOrder
		out.SortOrder = &v
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// CustomizationPatch campos crudos (claves JSON snake_case) que se fusionan sobre el registro
// almacenado. Un valor nil o una lista vacía en el patch borra el campo.
type CustomizationPatch map[string]any

// ID devuelve el id del patch si viene informado.
func (p CustomizationPatch) ID() string {
	if id, ok := p["id"].(string); ok {
		return id
	}
	return ""
}
