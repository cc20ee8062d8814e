package entity

import "github.com/shopspring/decimal"

// Offer opción de envío con precio y título emitida por el pipeline de resolución.
// Amount, Price y Cost siempre llevan el mismo valor (consumidores legados leen uno u otro).
type Offer struct {
	CarrierCode  string
	CarrierTitle string
	MethodCode   string
	MethodTitle  string
	Amount       decimal.Decimal
	Price        decimal.Decimal
	Cost         decimal.Decimal
	SortOrder    *int
	Diagnostics  []Diagnostic
}

// Diagnostic par clave/valor que viaja en additional_data.
type Diagnostic struct {
	Key   string
	Value string
}
