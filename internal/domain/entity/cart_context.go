package entity

import "github.com/shopspring/decimal"

// CartContext señales de compra derivadas de un payload arbitrario. Nunca se persiste.
type CartContext struct {
	Total           decimal.Decimal // >= 0
	ItemCount       int             // >= 1
	StoreToken      *string
	CustomerGroupID *string
	IsGuest         *bool // tri-estado: invitado, autenticado o desconocido
}

// StoreOrUnknown devuelve la tienda resuelta o "unknown" para diagnóstico.
func (c CartContext) StoreOrUnknown() string {
	if c.StoreToken == nil {
		return "unknown"
	}
	return *c.StoreToken
}
