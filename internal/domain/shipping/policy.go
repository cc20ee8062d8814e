package shipping

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulcrum-shipping/internal/domain"
)

// StorePolicy define qué significa una lista de tiendas vacía en la personalización.
type StorePolicy string

const (
	// StoreStrict lista vacía oculta la transportadora; acepta comodines "*"/"all" y "1"=="default".
	StoreStrict StorePolicy = "strict"
	// StorePermissive lista vacía no restringe; coincidencia exacta sin distinguir mayúsculas.
	StorePermissive StorePolicy = "permissive"
)

// GroupPolicy define qué significa una lista de grupos de cliente vacía.
type GroupPolicy string

const (
	GroupPermissive GroupPolicy = "permissive" // lista vacía = sin restricción
	GroupStrict     GroupPolicy = "strict"     // lista vacía = nunca coincide
)

// GuestGroup token del grupo "NOT LOGGED IN" de Commerce.
const GuestGroup = "0"

// FilterPolicy agrupa las políticas de filtrado de una instalación.
type FilterPolicy struct {
	Store       StorePolicy
	Group       GroupPolicy
	GuestGating bool
}

// Config parámetros del evaluador, construidos una sola vez en el arranque.
type Config struct {
	DefaultPrice decimal.Decimal
	Policy       FilterPolicy
}

// DefaultConfig tienda estricta, grupos permisivos, precio por defecto 0.
func DefaultConfig() Config {
	return Config{
		DefaultPrice: decimal.Zero,
		Policy: FilterPolicy{
			Store: StoreStrict,
			Group: GroupPermissive,
		},
	}
}

// ParseStorePolicy interpreta el valor de configuración; vacío equivale a strict.
func ParseStorePolicy(s string) (StorePolicy, error) {
	switch StorePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StoreStrict:
		return StoreStrict, nil
	case StorePermissive:
		return StorePermissive, nil
	}
	return "", fmt.Errorf("%w: política de tiendas %q", domain.ErrInvalidInput, s)
}

// ParseGroupPolicy interpreta el valor de configuración; vacío equivale a permissive.
func ParseGroupPolicy(s string) (GroupPolicy, error) {
	switch GroupPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", GroupPermissive:
		return GroupPermissive, nil
	case GroupStrict:
		return GroupStrict, nil
	}
	return "", fmt.Errorf("%w: política de grupos %q", domain.ErrInvalidInput, s)
}
